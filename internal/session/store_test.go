package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/bridgei2p/leadportal/internal/leadform"
	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() leadform.Snapshot {
	return leadform.Snapshot{
		Fields:   leads.Fields{FirstName: "Asha", WorkEmail: "asha@acme.example"},
		OTPSent:  true,
		Code:     "1234",
		OTPEmail: "asha@acme.example",
	}
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "s1", sampleSnapshot()))
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "old", sampleSnapshot()))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Save(ctx, "new", sampleSnapshot()))

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, store.Purge())
	assert.Equal(t, 1, store.Len())

	_, err := store.Load(ctx, "new")
	assert.NoError(t, err)
}

func TestMemoryStore_RunPurge(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	require.NoError(t, store.Save(context.Background(), "old", sampleSnapshot()))
	later := time.Now().Add(2 * time.Minute)
	store.mu.Lock()
	store.now = func() time.Time { return later }
	store.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunPurge(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, 10*time.Minute, nil)

	_, err := store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "abc", sampleSnapshot()))
	assert.True(t, mr.Exists("leadform:abc"))
	assert.Equal(t, 10*time.Minute, mr.TTL("leadform:abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("leadform:abc"))
}

func TestRedisStore_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, nil)

	require.NoError(t, store.Save(ctx, "abc", sampleSnapshot()))
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, nil)
	require.NoError(t, mr.Set("leadform:abc", "{not json"))

	_, err := store.Load(ctx, "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
