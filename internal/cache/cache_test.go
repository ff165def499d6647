package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func stubNow(t *testing.T, at time.Time) {
	t.Helper()
	now = func() time.Time { return at }
	t.Cleanup(func() { now = time.Now })
}

func TestSetGet(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stubNow(t, base)

	c := NewTTLCache[string, string]()
	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)

	stubNow(t, base.Add(2*time.Minute))
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestNoTTLNeverExpires(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stubNow(t, base)

	c := NewTTLCache[string, string]()
	c.Set("k", "v", 0)

	stubNow(t, base.Add(24*365*time.Hour))
	_, ok := c.Get("k")
	require.True(t, ok)
}

func TestDeleteAndLen(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	require.Equal(t, 2, c.Len())

	c.Delete("a")
	require.Equal(t, 1, c.Len())
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestPurgeExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stubNow(t, base)

	c := NewTTLCache[string, int]()
	c.Set("keep", 1, 0)
	c.Set("drop", 2, time.Second)

	stubNow(t, base.Add(time.Minute))
	c.PurgeExpired()

	require.Equal(t, 1, c.Len())
	_, ok := c.Get("keep")
	require.True(t, ok)
}
