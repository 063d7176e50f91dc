package repositories

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const encryptionInfo = "tienda-console kv v1"

// ErrDecrypt is returned when a stored value cannot be opened with the configured secret
var ErrDecrypt = errors.New("stored value cannot be decrypted")

// EncryptedStore seals every value with XChaCha20-Poly1305 before it reaches the inner store.
// The entry key is used as additional data so values cannot be swapped between keys.
type EncryptedStore struct {
	inner KeyValueStore
	aead  cipher.AEAD
}

// NewEncryptedStore derives a 256-bit key from secret with HKDF-SHA256
func NewEncryptedStore(inner KeyValueStore, secret string) (*EncryptedStore, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(encryptionInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &EncryptedStore{inner: inner, aead: aead}, nil
}

func (s *EncryptedStore) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (s *EncryptedStore) open(key, sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < s.aead.NonceSize() {
		return "", ErrDecrypt
	}
	n := s.aead.NonceSize()
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], []byte(key))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// Get gets and decrypts a value
func (s *EncryptedStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.open(key, sealed)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", key, err)
	}
	return plain, true, nil
}

// GetMany gets and decrypts several values
func (s *EncryptedStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	sealed, err := s.inner.GetMany(ctx, keys...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(sealed))
	for k, v := range sealed {
		plain, err := s.open(k, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = plain
	}
	return out, nil
}

// Set encrypts and stores a value
func (s *EncryptedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealed)
}

// SetMany encrypts every value and stores them with one inner SetMany
func (s *EncryptedStore) SetMany(ctx context.Context, values map[string]string) error {
	sealed := make(map[string]string, len(values))
	for k, v := range values {
		enc, err := s.seal(k, v)
		if err != nil {
			return err
		}
		sealed[k] = enc
	}
	return s.inner.SetMany(ctx, sealed)
}

// Remove deletes keys
func (s *EncryptedStore) Remove(ctx context.Context, keys ...string) error {
	return s.inner.Remove(ctx, keys...)
}

// Ping checks the inner store
func (s *EncryptedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// DeleteOlderThan delegates to the inner store when it can sweep
func (s *EncryptedStore) DeleteOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int64, error) {
	if sw, ok := s.inner.(Sweeper); ok {
		return sw.DeleteOlderThan(ctx, prefix, cutoff)
	}
	return 0, nil
}
