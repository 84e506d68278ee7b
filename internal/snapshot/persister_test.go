package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer"
)

// recordingStore counts saves and can be told to fail.
type recordingStore struct {
	mu    sync.Mutex
	saves [][]article.Article
	err   error
}

func (r *recordingStore) Name() string { return "recording" }

func (r *recordingStore) Load(context.Context) ([]article.Article, error) {
	return []article.Article{}, nil
}

func (r *recordingStore) Save(_ context.Context, articles []article.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, articles)
	return r.err
}

func (r *recordingStore) last() []article.Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return nil
	}
	return r.saves[len(r.saves)-1]
}

func flushCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestPersister_WritesAfterEveryAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	fs := NewFileStore(path)
	engine := indexer.NewEngine()
	p := NewPersister(fs, engine)
	p.Start()
	defer p.Close()
	engine.OnAdd(func(context.Context, article.Article) { p.Notify() })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := engine.Add(ctx, "title", "content", []string{"t"})
		require.NoError(t, err)
	}
	require.NoError(t, p.Flush(flushCtx(t)))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.Snapshot(), loaded)
}

func TestPersister_FailureDoesNotFailAdd(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	engine := indexer.NewEngine()
	var observed []error
	var mu sync.Mutex
	p := NewPersister(store, engine, WithResultFunc(func(err error, _ int, _ time.Duration) {
		mu.Lock()
		observed = append(observed, err)
		mu.Unlock()
	}))
	p.Start()
	defer p.Close()
	engine.OnAdd(func(context.Context, article.Article) { p.Notify() })

	a, err := engine.Add(context.Background(), "still", "added", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)

	err = p.Flush(flushCtx(t))
	require.Error(t, err)
	assert.EqualError(t, p.LastError(), "disk full")

	got, err := engine.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "still", got.Title)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, observed)
	assert.Error(t, observed[len(observed)-1])
}

func TestPersister_CloseWritesPending(t *testing.T) {
	store := &recordingStore{}
	engine := indexer.NewEngine()
	_, err := engine.Add(context.Background(), "pending", "write", nil)
	require.NoError(t, err)

	p := NewPersister(store, engine)
	p.Notify()
	p.Close()

	require.Len(t, store.last(), 1)
	assert.Equal(t, "pending", store.last()[0].Title)
}

func TestPersister_CoalescesBursts(t *testing.T) {
	store := &recordingStore{}
	engine := indexer.NewEngine()
	p := NewPersister(store, engine)
	for i := 0; i < 10; i++ {
		_, err := engine.Add(context.Background(), "t", "c", nil)
		require.NoError(t, err)
		p.Notify()
	}
	p.Start()
	require.NoError(t, p.Flush(flushCtx(t)))
	p.Close()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Less(t, len(store.saves), 10)
	assert.Len(t, store.saves[len(store.saves)-1], 10)
}

func TestPersister_FlushWithNothingPending(t *testing.T) {
	p := NewPersister(&recordingStore{}, indexer.NewEngine())
	require.NoError(t, p.Flush(context.Background()))
	p.Close()
}
