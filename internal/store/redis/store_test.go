package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, capacity int) *Store {
	t.Helper()
	srv := miniredis.RunT(t)
	s, err := New(context.Background(), Config{
		URL:      "redis://" + srv.Addr(),
		Capacity: capacity,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := newStore(t, 2000)
	ctx := context.Background()

	ids := []string{"aaa", "bbb", "ccc"}
	require.NoError(t, s.Save(ctx, ids))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, ids, got)
}

func TestStoreEmptyLoad(t *testing.T) {
	t.Parallel()

	s := newStore(t, 2000)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStoreTrimsToCapacity(t *testing.T) {
	t.Parallel()

	s := newStore(t, 100)
	ctx := context.Background()

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("fp-%03d", i)
	}
	require.NoError(t, s.Save(ctx, ids))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 100)
	require.Equal(t, "fp-150", got[0])
	require.Equal(t, "fp-249", got[99])
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{URL: "", Capacity: 10})
	require.Error(t, err)

	_, err = New(context.Background(), Config{URL: "redis://localhost:6379", Capacity: 0})
	require.Error(t, err)
}
