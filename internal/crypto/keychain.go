package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// cipherKeyName is the secret-store entry holding the per-installation
// master key. The name is shared with the mobile client so a device keeps
// one key across app variants.
const cipherKeyName = "workix_offline_cipher"

const masterKeyLen = 32 // 256 bits

// KeyProvider lazily provisions the per-installation master key. On first
// use it generates a random 256-bit key and persists it base64-encoded in
// the secret store; afterwards the key is read-shared by every cipher
// derived from the provider.
type KeyProvider struct {
	store SecretStore

	mu     sync.Mutex
	master []byte
}

// NewKeyProvider constructs a [KeyProvider] on top of the given secret store.
// No key material is touched until the first encrypt or decrypt call.
func NewKeyProvider(store SecretStore) *KeyProvider {
	return &KeyProvider{store: store}
}

// masterKey returns the installation master key, generating and persisting
// it on first use. Exactly one key is ever created per installation; the
// result is cached for the lifetime of the provider.
func (p *KeyProvider) masterKey(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.master != nil {
		return p.master, nil
	}

	encoded, err := p.store.GetSecret(ctx, cipherKeyName)
	switch {
	case err == nil:
		key, decodeErr := base64.StdEncoding.DecodeString(encoded)
		if decodeErr != nil {
			return nil, fmt.Errorf("decode stored cipher key: %w", decodeErr)
		}
		p.master = key
		return p.master, nil

	case errors.Is(err, ErrSecretNotFound):
		// First run on this installation: provision a fresh key.

	default:
		return nil, fmt.Errorf("read cipher key: %w", err)
	}

	key := make([]byte, masterKeyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate cipher key: %w", err)
	}
	if err := p.store.SetSecret(ctx, cipherKeyName, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("persist cipher key: %w", err)
	}

	p.master = key
	return p.master, nil
}

// deriveKey expands the master key into a purpose-bound subkey via
// HKDF-SHA256. Distinct labels give the queue and the entity cache
// independent keys from the single stored secret.
func (p *KeyProvider) deriveKey(ctx context.Context, label string) ([]byte, error) {
	master, err := p.masterKey(ctx)
	if err != nil {
		return nil, err
	}

	key := make([]byte, masterKeyLen)
	r := hkdf.New(sha256.New, master, nil, []byte(label))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", label, err)
	}
	return key, nil
}

// payloadCipher is the private implementation of [CipherService]. Each
// instance seals with a subkey bound to its label.
type payloadCipher struct {
	provider *KeyProvider
	label    string

	mu  sync.Mutex
	key []byte
}

// NewPayloadCipher constructs a [CipherService] whose key is derived from
// the provider's master key under label (e.g. "queue", "entity-cache").
func NewPayloadCipher(provider *KeyProvider, label string) CipherService {
	return &payloadCipher{provider: provider, label: label}
}

func (c *payloadCipher) dataKey(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key == nil {
		key, err := c.provider.deriveKey(ctx, c.label)
		if err != nil {
			return nil, err
		}
		c.key = key
	}
	return c.key, nil
}

// Encrypt implements [CipherService]. It marshals value to JSON, then
// encrypts it with the derived key using AES-256-GCM. The output is a
// Base64 (standard encoding) string of the blob: nonce (12 bytes) ‖
// ciphertext.
func (c *payloadCipher) Encrypt(ctx context.Context, value any) (string, error) {
	key, err := c.dataKey(ctx)
	if err != nil {
		return "", err
	}

	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Prepend the nonce so Decrypt can split it out: blob = nonce || ciphertext.
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	blob := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [CipherService]. It Base64-decodes ciphertext, splits
// out the nonce, decrypts via AES-256-GCM, and unmarshals the resulting
// JSON into target. Any malformed or tampered input is reported as
// [ErrCipher].
func (c *payloadCipher) Decrypt(ctx context.Context, ciphertext string, target any) error {
	key, err := c.dataKey(ctx)
	if err != nil {
		return err
	}

	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return fmt.Errorf("%w: decode base64: %w", ErrCipher, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return fmt.Errorf("%w: ciphertext too short", ErrCipher)
	}
	nonce, sealed := blob[:nonceSize], blob[nonceSize:]

	// An auth-tag mismatch here means the row was tampered with or the
	// installation key does not match the one that sealed it.
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return fmt.Errorf("%w: open: %w", ErrCipher, err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	return nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
