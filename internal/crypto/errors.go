package crypto

import "errors"

var (
	// ErrSecretNotFound is returned by a [SecretStore] when no secret with
	// the requested name has been stored yet.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrCipher is returned (wrapped) when ciphertext cannot be decrypted:
	// the blob is truncated, the authentication tag does not verify, or the
	// key material does not match. Callers match it with errors.Is.
	ErrCipher = errors.New("cipher error")
)
