package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/ports"
)

// encPrefix marks an encrypted field value so plain values from before the
// middleware was enabled still load.
const encPrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.SessionStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts the free-text
// carriers of a session (answers, project context, previous output,
// reference path) with AES-GCM before they reach the store. Structural
// fields stay plain so status and progress remain observable.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, sess *domain.Session) error {
	cloned := sess.Clone()
	if err := m.transformTexts(cloned, m.sealField); err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}
	return m.next.Save(ctx, cloned)
}

func (m *encryptionMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := m.transformTexts(sess, m.openField); err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}
	return sess, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// transformTexts applies fn to every free-text carrier of the session.
func (m *encryptionMiddleware) transformTexts(sess *domain.Session, fn func(string) (string, error)) error {
	var err error
	if sess.ProjectContext, err = fn(sess.ProjectContext); err != nil {
		return err
	}
	if sess.Interview == nil {
		return nil
	}
	if sess.Interview.ExistingOutput, err = fn(sess.Interview.ExistingOutput); err != nil {
		return err
	}
	if sess.Interview.ReferenceImagePath, err = fn(sess.Interview.ReferenceImagePath); err != nil {
		return err
	}
	for id, ans := range sess.Interview.Answers {
		if ans.FreeText == "" {
			continue
		}
		if ans.FreeText, err = fn(ans.FreeText); err != nil {
			return err
		}
		sess.Interview.Answers[id] = ans
	}
	return nil
}

func (m *encryptionMiddleware) sealField(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	ciphertext, err := encrypt([]byte(value), m.config.ActiveKey)
	if err != nil {
		return "", err
	}
	return encPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (m *encryptionMiddleware) openField(value string) (string, error) {
	if !strings.HasPrefix(value, encPrefix) {
		// Plain value from before encryption was enabled.
		return value, nil
	}
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, encPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	// Try active key first
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	// Try fallbacks in order
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
