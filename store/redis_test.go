package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore(t *testing.T) {
	_, client := newMiniredis(t)
	runContract(t, NewRedisStoreFromClient(client))
}

func TestRedisStoreKeys(t *testing.T) {
	mr, client := newMiniredis(t)
	s := NewRedisStoreFromClient(client, WithPrefix("test:"))
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), sampleLayout("alpha")))
	assert.True(t, mr.Exists("test:layout:alpha"))
	members, err := mr.SMembers("test:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, members)
}

func TestRedisStoreNameMatchingIndexKey(t *testing.T) {
	mr, client := newMiniredis(t)
	s := NewRedisStoreFromClient(client)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleLayout("alpha")))
	require.NoError(t, s.Save(ctx, sampleLayout("index")))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "index"}, names)

	l, err := s.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, sampleLayout("index"), l)

	require.NoError(t, s.Delete(ctx, "index"))
	members, err := mr.SMembers(defaultRedisPrefix + "index")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, members)
}

func TestRedisStoreTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	s := NewRedisStoreFromClient(client, WithTTL(time.Minute))
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleLayout("short")))
	assert.Equal(t, time.Minute, mr.TTL(defaultRedisPrefix+"layout:short"))

	mr.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.False(t, mr.Exists(defaultRedisPrefix+"index"))
}

func TestNewRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	mr.Close()
	_, err = NewRedisStore(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}
