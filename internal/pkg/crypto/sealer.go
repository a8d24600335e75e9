package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Sealer encrypts draft payloads at rest with XChaCha20-Poly1305. A Sealer
// without a key passes data through unchanged.
type Sealer struct {
	key []byte
}

// NewSealer decodes key as hex, base64 or raw bytes. An empty key gives a
// pass-through Sealer.
func NewSealer(key string) (*Sealer, error) {
	if key == "" {
		return &Sealer{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("DRAFT_ENCRYPTION_KEY must be %d bytes after decoding", chacha20poly1305.KeySize)
	}
	return &Sealer{key: decoded}, nil
}

func (s *Sealer) Configured() bool {
	return len(s.key) == chacha20poly1305.KeySize
}

// Seal returns nonce || ciphertext. additional is authenticated but not
// encrypted; callers bind the row id to it so a payload cannot be moved.
func (s *Sealer) Seal(plain, additional []byte) ([]byte, error) {
	if !s.Configured() {
		return plain, nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plain, additional), nil
}

func (s *Sealer) Open(sealed, additional []byte) ([]byte, error) {
	if !s.Configured() {
		return sealed, nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, fmt.Errorf("open sealed payload: %w", err)
	}
	return plain, nil
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
