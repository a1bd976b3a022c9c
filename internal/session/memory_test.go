package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/matching-cli/internal/model"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	s := NewMemory(time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	state := &model.SessionState{CompanyA: model.CompanyProfile{Name: "Acme Foods"}}
	require.NoError(t, s.Put(ctx, "sess-1", state))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Foods", got.CompanyA.Name)

	require.NoError(t, s.Delete(ctx, "sess-1"))
	_, err = s.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateExisting(t *testing.T) {
	s := NewMemory(time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sess-1", &model.SessionState{}))
	require.NoError(t, s.Update(ctx, "sess-1", &model.SessionState{
		CompanyA: model.CompanyProfile{Name: "Acme Foods"},
	}))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Foods", got.CompanyA.Name)
}

func TestMemoryStore_UpdateDeletedSessionNotRecreated(t *testing.T) {
	s := NewMemory(time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sess-1", &model.SessionState{}))
	require.NoError(t, s.Delete(ctx, "sess-1"))

	err := s.Update(ctx, "sess-1", &model.SessionState{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := NewMemory(time.Hour)
	t.Cleanup(func() { _ = s.Close() })

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetExpired(t *testing.T) {
	s := NewMemory(time.Nanosecond)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sess-1", &model.SessionState{}))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SweepFiresEvictionHook(t *testing.T) {
	var evictedID string
	var evictedState *model.SessionState

	s := NewMemory(time.Hour, WithEvictionHook(func(id string, state *model.SessionState) {
		evictedID = id
		evictedState = state
	}))
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	state := &model.SessionState{UploadPath: "uploads/sess-1_companies.csv"}
	require.NoError(t, s.Put(ctx, "sess-1", state))

	s.sweep(time.Now().Add(2 * time.Hour))

	assert.Equal(t, "sess-1", evictedID)
	require.NotNil(t, evictedState)
	assert.Equal(t, "uploads/sess-1_companies.csv", evictedState.UploadPath)

	_, err := s.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SweepKeepsLiveEntries(t *testing.T) {
	s := NewMemory(time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sess-1", &model.SessionState{}))
	s.sweep(time.Now())

	_, err := s.Get(ctx, "sess-1")
	assert.NoError(t, err)
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	s := NewMemory(time.Second)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
