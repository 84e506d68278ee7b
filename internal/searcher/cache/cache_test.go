package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/parser"
)

// memoryBackend is an in-process stand-in for Redis.
type memoryBackend struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: make(map[string]string)}
}

func (m *memoryBackend) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", errors.New("connection refused")
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryBackend) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = string(value.([]byte))
	return nil
}

func (m *memoryBackend) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var n int64
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func sampleResult() *executor.SearchResult {
	return &executor.SearchResult{
		Query: "dog",
		Terms: []string{"dog"},
		Results: []article.Scored{
			{Article: article.Article{ID: 2, Title: "Dog Training", Content: "Training your dog", Tags: []string{}}, RelevanceScore: 2},
		},
	}
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	c := New(newMemoryBackend(), time.Minute)
	plan := parser.Parse("dog")
	var calls atomic.Int32
	compute := func(context.Context) (*executor.SearchResult, error) {
		calls.Add(1)
		return sampleResult(), nil
	}

	res, hit, err := c.GetOrCompute(context.Background(), plan, "relevance", 1, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(2), res.Results[0].ID)

	res, hit, err = c.GetOrCompute(context.Background(), plan, "relevance", 1, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, res.Results[0].RelevanceScore)
	assert.Equal(t, int32(1), calls.Load())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestGetOrCompute_NewGenerationMisses(t *testing.T) {
	c := New(newMemoryBackend(), time.Minute)
	plan := parser.Parse("dog")
	var calls atomic.Int32
	compute := func(context.Context) (*executor.SearchResult, error) {
		calls.Add(1)
		return sampleResult(), nil
	}

	_, _, err := c.GetOrCompute(context.Background(), plan, "relevance", 1, compute)
	require.NoError(t, err)
	_, hit, err := c.GetOrCompute(context.Background(), plan, "relevance", 2, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend, time.Minute)

	_, _, err := c.GetOrCompute(context.Background(), parser.Parse("dog"), "relevance", 1, func(context.Context) (*executor.SearchResult, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.Empty(t, backend.data)
}

func TestGet_BackendFailureIsMiss(t *testing.T) {
	backend := newMemoryBackend()
	backend.failGet = true
	c := New(backend, time.Minute)

	_, ok := c.Get(context.Background(), "search:abc")
	assert.False(t, ok)
	_, misses := c.Stats()
	assert.Equal(t, int64(1), misses)
}

func TestInvalidate(t *testing.T) {
	backend := newMemoryBackend()
	backend.data["other:key"] = "keep"
	c := New(backend, time.Minute)
	c.Set(context.Background(), BuildKey(parser.Parse("dog"), "relevance", 1), sampleResult())

	require.NoError(t, c.Invalidate(context.Background()))
	assert.Equal(t, map[string]string{"other:key": "keep"}, backend.data)
}

func TestBuildKey(t *testing.T) {
	base := BuildKey(parser.Parse("Dog  training"), "relevance", 3)

	assert.True(t, strings.HasPrefix(base, keyPrefix))
	assert.Equal(t, base, BuildKey(parser.Parse("dog training"), "relevance", 3))
	assert.NotEqual(t, base, BuildKey(parser.Parse("training dog"), "relevance", 3))
	assert.NotEqual(t, base, BuildKey(parser.Parse("dog training"), "date", 3))
	assert.NotEqual(t, base, BuildKey(parser.Parse("dog training"), "relevance", 4))
}

func TestGetOrCompute_IgnoresCallerCancellation(t *testing.T) {
	c := New(newMemoryBackend(), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, hit, err := c.GetOrCompute(ctx, parser.Parse("dog"), "relevance", 1, func(ctx context.Context) (*executor.SearchResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return sampleResult(), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, res.Results, 1)
}

func TestGetOrCompute_WaitersShareResultWhenFirstCallerLeaves(t *testing.T) {
	c := New(newMemoryBackend(), time.Minute)
	plan := parser.Parse("dog")
	started := make(chan struct{})
	var startOnce sync.Once
	release := make(chan struct{})
	compute := func(ctx context.Context) (*executor.SearchResult, error) {
		startOnce.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return sampleResult(), nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrCompute(firstCtx, plan, "relevance", 1, compute)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrCompute(context.Background(), plan, "relevance", 1, compute)
		secondErr <- err
	}()

	cancelFirst()
	close(release)

	require.NoError(t, <-firstErr)
	require.NoError(t, <-secondErr)
}

// blockingBackend never answers FlushByPattern until released.
type blockingBackend struct {
	*memoryBackend
	release chan struct{}
	flushed chan struct{}
}

func (b *blockingBackend) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	defer close(b.flushed)
	select {
	case <-b.release:
		return b.memoryBackend.FlushByPattern(ctx, pattern)
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestInvalidateAsync_DoesNotWaitForBackend(t *testing.T) {
	backend := &blockingBackend{
		memoryBackend: newMemoryBackend(),
		release:       make(chan struct{}),
		flushed:       make(chan struct{}),
	}
	c := New(backend, time.Minute)

	start := time.Now()
	c.InvalidateAsync(context.Background(), 50*time.Millisecond)
	assert.Less(t, time.Since(start), 20*time.Millisecond)

	select {
	case <-backend.flushed:
	case <-time.After(2 * time.Second):
		t.Fatal("invalidation was not bounded by its timeout")
	}
}
