// Package config loads and validates the fieldsync agent configuration.
//
// Configuration values are collected from three layers and merged in order
// of precedence: environment variables, command-line flags, and built-in
// defaults. Each layer produces a [StructuredConfig]; merging fills only
// fields the higher-precedence layers left empty.
package config
