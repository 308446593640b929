package crypto

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// SecretStore is the platform-protected secret store the cipher keys live
// in. Implementations must return [ErrSecretNotFound] for absent names so
// callers can distinguish "not provisioned yet" from a store failure.
//
// On mobile builds this is backed by the OS keychain; the agent ships a
// file-backed implementation for headless deployments.
type SecretStore interface {
	// GetSecret returns the named secret value.
	GetSecret(ctx context.Context, name string) (string, error)

	// SetSecret stores the named secret value, replacing any prior value.
	SetSecret(ctx context.Context, name string, value string) error
}

// CipherService encrypts and decrypts serializable values so that queue
// payloads and cached entity snapshots are unreadable at rest without access
// to the secret store.
type CipherService interface {
	// Encrypt serializes value to JSON and seals it. The returned string is
	// safe to persist in the local database.
	Encrypt(ctx context.Context, value any) (string, error)

	// Decrypt reverses Encrypt into target (a non-nil pointer, same
	// requirement as [encoding/json.Unmarshal]). Corrupted or tampered
	// ciphertext yields an error matching [ErrCipher] via errors.Is.
	Decrypt(ctx context.Context, ciphertext string, target any) error
}
