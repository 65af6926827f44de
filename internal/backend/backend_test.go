package backend

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("store.insert", nil))

	cause := errors.New("PERMISSION_DENIED: missing rights")
	err := Wrap("store.insert", cause)
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "store.insert", pe.Op)
	assert.Equal(t, "store.insert: PERMISSION_DENIED: missing rights", pe.Describe())

	// already wrapped errors keep their original operation
	again := Wrap("outer", fmt.Errorf("context: %w", err))
	require.True(t, errors.As(again, &pe))
	assert.Equal(t, "store.insert", pe.Op)
}

func TestIsProviderError(t *testing.T) {
	assert.False(t, IsProviderError(nil))
	assert.False(t, IsProviderError(ErrNotConnected))
	assert.Equal(t, "auth: provider error", (&ProviderError{Op: "auth"}).Error())
}

func TestHub(t *testing.T) {
	h := NewHub()
	var mu sync.Mutex
	var got []string

	unsubA := h.Subscribe(func(ev models.SessionEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, "a:"+ev.UserID)
	})
	unsubB := h.Subscribe(func(ev models.SessionEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, "b:"+ev.UserID)
	})
	assert.Equal(t, 2, h.Len())

	h.Publish(models.SessionEvent{Kind: models.SessionSignedIn, UserID: "u1"})
	assert.ElementsMatch(t, []string{"a:u1", "b:u1"}, got)

	unsubA()
	unsubA()
	assert.Equal(t, 1, h.Len())

	h.Publish(models.SessionEvent{Kind: models.SessionSignedOut, UserID: "u2"})
	assert.ElementsMatch(t, []string{"a:u1", "b:u1", "b:u2"}, got)

	unsubB()
	assert.Equal(t, 0, h.Len())
	h.Publish(models.SessionEvent{UserID: "u3"})
	assert.Len(t, got, 3)
}
