package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSQLite creates an in-memory SQLite store with the cache schema.
func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestSQLiteStore_GetSet_RoundTrip(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	value := []byte(`{"id": 31, "name": "Tom Hanks"}`)
	require.NoError(t, s.Set(ctx, "test-key", value, time.Hour))

	got, ok, err := s.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.True(t, ok, "expected to find cached value")
	assert.Equal(t, value, got)
}

func TestSQLiteStore_Get_NotFound(t *testing.T) {
	s := setupSQLite(t)

	got, ok, err := s.Get(context.Background(), "nonexistent-key")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSQLiteStore_Get_Expired(t *testing.T) {
	s := setupSQLite(t)
	clock := newTestClock()
	s.now = clock.Now
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "expiring-key", []byte("v"), time.Second))

	_, ok, _ := s.Get(ctx, "expiring-key")
	assert.True(t, ok, "expected value before expiration")

	clock.Advance(2 * time.Second)

	_, ok, err := s.Get(ctx, "expiring-key")
	require.NoError(t, err)
	assert.False(t, ok, "expected miss after expiration")
}

func TestSQLiteStore_Set_OverwriteExtendsTTL(t *testing.T) {
	s := setupSQLite(t)
	clock := newTestClock()
	s.now = clock.Now
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("first"), time.Second))
	require.NoError(t, s.Set(ctx, "k", []byte("second"), time.Hour))

	clock.Advance(time.Minute)

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "TTL extended by overwrite")
	assert.Equal(t, []byte("second"), got)
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, _ := s.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, s.Delete(ctx, "nonexistent-key"))
}

func TestSQLiteStore_Multi(t *testing.T) {
	s := setupSQLite(t)
	clock := newTestClock()
	s.now = clock.Now
	ctx := context.Background()

	require.NoError(t, s.SetMulti(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}, time.Hour))
	require.NoError(t, s.Set(ctx, "short", []byte("3"), time.Second))

	clock.Advance(time.Minute)

	got, err := s.GetMulti(ctx, []string{"a", "b", "short", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, got)

	empty, err := s.GetMulti(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteStore_Sweep(t *testing.T) {
	s := setupSQLite(t)
	clock := newTestClock()
	s.now = clock.Now
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short-1", []byte("v"), time.Second))
	require.NoError(t, s.Set(ctx, "short-2", []byte("v"), time.Second))
	require.NoError(t, s.Set(ctx, "short-3", []byte("v"), time.Second))
	require.NoError(t, s.Set(ctx, "long", []byte("v"), time.Hour))

	clock.Advance(time.Minute)

	n, err := s.Sweep(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Sweep(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, _ := s.Get(ctx, "long")
	assert.True(t, ok)
}

func TestSQLiteStore_BinaryAndSpecialKeys(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		key   string
		value []byte
	}{
		{"binary", "binary-key", []byte{0x00, 0x01, 0xFF, 0xFE, 0x80}},
		{"unicode key", "key-中文", []byte("v")},
		{"special chars", "costar:v1:search:with/special?chars", []byte("v")},
		{"quotes", `key"with'quotes`, []byte("v")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, tc.key, tc.value, time.Hour))
			got, ok, err := s.Get(ctx, tc.key)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tc.value, got)
		})
	}
}

func TestSQLiteStore_ClosedReportsBackendError(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, s.Ping(context.Background()), ErrBackend)
}
