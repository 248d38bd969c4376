package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache("puffingood")

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCache("puffingood").(*memoryCache)
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	current = current.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	current = current.Add(time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestGenerateKey(t *testing.T) {
	c := NewMemoryCache("puffingood")
	assert.Equal(t, "puffingood:cart:42", c.GenerateKey("cart", "42"))

	r := NewRedisCache("localhost:0", "puffingood")
	assert.Equal(t, "puffingood:menu:all", r.GenerateKey("menu", "all"))
	assert.NoError(t, Close(r))
}

// increment прибавляет единицу к числу в ключе.
func increment(value string, found bool) (string, error) {
	n := 0
	if found {
		var err error
		if n, err = strconv.Atoi(value); err != nil {
			return "", err
		}
	}
	return strconv.Itoa(n + 1), nil
}

func assertConcurrentIncrements(t *testing.T, c Cache, key string) {
	t.Helper()

	ctx := context.Background()
	const workers = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Update(ctx, key, time.Minute, increment)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	v, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, strconv.Itoa(workers), v)
}

func TestMemoryCache_Update(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache("puffingood")

	assertConcurrentIncrements(t, c, "counter")

	errBoom := errors.New("boom")
	err := c.Update(ctx, "counter", time.Minute, func(string, bool) (string, error) { return "", errBoom })
	require.ErrorIs(t, err, errBoom)
	v, _, _ := c.Get(ctx, "counter")
	assert.Equal(t, "20", v)

	require.NoError(t, c.Update(ctx, "counter", time.Minute, func(string, bool) (string, error) { return "", nil }))
	_, ok, _ := c.Get(ctx, "counter")
	assert.False(t, ok)
}

func TestMemoryCache_UpdateSeesExpiredAsMissing(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCache("puffingood").(*memoryCache)
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "k", "41", time.Minute))
	current = current.Add(time.Minute)

	var sawFound bool
	require.NoError(t, c.Update(ctx, "k", time.Minute, func(value string, found bool) (string, error) {
		sawFound = found
		return increment(value, found)
	}))
	assert.False(t, sawFound)

	v, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "1", v)
}

func TestRedisCache_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	c := NewRedisCache(addr, "puffingood")
	t.Cleanup(func() { _ = Close(c) })
	require.NoError(t, Ping(ctx, c))

	key := c.GenerateKey("cart", "u1")
	assertConcurrentIncrements(t, c, key)

	require.NoError(t, c.Update(ctx, key, time.Minute, func(string, bool) (string, error) { return "", nil }))
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
