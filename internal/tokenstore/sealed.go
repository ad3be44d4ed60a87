package tokenstore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/felixgeelhaar/newsdesk/internal/errors"
)

// PassphraseEnv enables the sealed backend when set
const PassphraseEnv = "NEWSDESK_PASSPHRASE"

const (
	sealedPrefix     = "sealed:v1:"
	pbkdf2Iterations = 100000
)

// SealedBackend encrypts every value with AES-GCM before handing it to the wrapped backend.
// The key is derived from a passphrase with PBKDF2-SHA256.
type SealedBackend struct {
	inner Backend
	key   []byte
}

// NewSealedBackend wraps inner with encryption under passphrase
func NewSealedBackend(inner Backend, passphrase string) (*SealedBackend, error) {
	if passphrase == "" {
		return nil, errors.New(errors.ErrCodeStoreSealed, "passphrase cannot be empty")
	}
	salt := []byte("newsdesk-session-store")
	key := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, 32, sha256.New)
	return &SealedBackend{inner: inner, key: key}, nil
}

// Get implements Backend
func (s *SealedBackend) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return "", false, errors.New(errors.ErrCodeStoreSealed, fmt.Sprintf("stored %q value is not sealed", key)).
			WithSuggestion("Run 'newsdesk auth logout' and log in again with " + PassphraseEnv + " set")
	}

	plain, err := s.open(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodeStoreSealed, fmt.Sprintf("failed to unseal %q", key), err).
			WithSuggestions(
				"Check that "+PassphraseEnv+" matches the passphrase used at login",
				"Or run 'newsdesk auth logout' and log in again")
	}
	return plain, true, nil
}

// Set implements Backend
func (s *SealedBackend) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreSealed, fmt.Sprintf("failed to seal %q", key), err)
	}
	return s.inner.Set(ctx, key, sealedPrefix+sealed)
}

// Delete implements Backend
func (s *SealedBackend) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *SealedBackend) seal(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *SealedBackend) open(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, body := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
