package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerOpensWhatItSealed(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)
	s, err := NewSealer(key)
	require.NoError(t, err)

	token, err := s.Seal([]byte(`{"user":{"id":"demo-user"}}`))
	require.NoError(t, err)

	plain, err := s.Open(token)
	require.NoError(t, err)
	assert.Equal(t, `{"user":{"id":"demo-user"}}`, string(plain))
}

func TestSealerRejectsTamperedAndForeignTokens(t *testing.T) {
	key, _ := NewKey()
	other, _ := NewKey()
	s, _ := NewSealer(key)
	foreign, _ := NewSealer(other)

	token, err := s.Seal([]byte("hello"))
	require.NoError(t, err)

	_, err = foreign.Open(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	raw[len(raw)/2] ^= 0x01
	_, err = s.Open(base64.RawURLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Open("not base64 !!")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Open("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSealerRejectsShortKey(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	assert.Error(t, err)
}
