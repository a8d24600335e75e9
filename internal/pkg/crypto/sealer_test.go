package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(testKeyHex)
	require.NoError(t, err)
	require.True(t, s.Configured())

	plain := []byte(`{"accountNumber":"0123456789"}`)
	sealed, err := s.Seal(plain, []byte("session-1"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "0123456789")

	opened, err := s.Open(sealed, []byte("session-1"))
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestSealer_NoncesDiffer(t *testing.T) {
	s, err := NewSealer(testKeyHex)
	require.NoError(t, err)

	a, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSealer_RejectsWrongAdditionalData(t *testing.T) {
	s, err := NewSealer(testKeyHex)
	require.NoError(t, err)
	sealed, err := s.Seal([]byte("secret"), []byte("session-1"))
	require.NoError(t, err)

	_, err = s.Open(sealed, []byte("session-2"))
	assert.Error(t, err)

	_, err = s.Open(sealed[:5], []byte("session-1"))
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestSealer_PassThroughWithoutKey(t *testing.T) {
	s, err := NewSealer("")
	require.NoError(t, err)
	assert.False(t, s.Configured())

	sealed, err := s.Seal([]byte("plain"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), sealed)
}

func TestNewSealer_KeyEncodings(t *testing.T) {
	raw, _ := hex.DecodeString(testKeyHex)

	_, err := NewSealer(string(raw))
	assert.NoError(t, err)

	_, err = NewSealer("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8=")
	assert.NoError(t, err)

	_, err = NewSealer(strings.Repeat("a", 10))
	assert.Error(t, err)
}
