// Package indexer owns the article store and the inverted index behind a
// single writer lock. The Engine is constructed once at startup and handed to
// the HTTP layer and the search executor.
package indexer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/store"
)

// AddHook runs after an article is stored and indexed, outside the engine
// lock. Hooks must not block for long; the add caller waits for them.
type AddHook func(ctx context.Context, a article.Article)

// Stats is a point-in-time view of the engine.
type Stats struct {
	Articles   int         `json:"articles"`
	NextID     int64       `json:"next_id"`
	Generation uint64      `json:"generation"`
	Index      index.Stats `json:"index"`
}

type Engine struct {
	mu    sync.RWMutex
	store *store.Store
	index *index.Index

	// generation changes on every mutation; cached search results are keyed
	// by it.
	generation atomic.Uint64

	hooksMu sync.RWMutex
	hooks   []AddHook

	logger *slog.Logger
}

func NewEngine() *Engine {
	return NewEngineWithStore(store.New())
}

// NewEngineWithStore wraps an existing store, indexing whatever it holds.
func NewEngineWithStore(s *store.Store) *Engine {
	e := &Engine{
		store:  s,
		index:  index.New(),
		logger: slog.Default().With("component", "indexer"),
	}
	e.index.Rebuild(s.All())
	return e
}

// OnAdd registers a hook fired after every successful Add.
func (e *Engine) OnAdd(hook AddHook) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks, hook)
}

// Add stores and indexes a new article. Readers observe either none or all of
// its postings.
func (e *Engine) Add(ctx context.Context, title, content string, tags []string) (article.Article, error) {
	e.mu.Lock()
	a, err := e.store.Add(title, content, tags)
	if err != nil {
		e.mu.Unlock()
		return article.Article{}, err
	}
	e.index.IndexArticle(a)
	e.generation.Add(1)
	e.mu.Unlock()

	e.logger.Debug("article indexed",
		"id", a.ID,
		"tags", len(a.Tags),
	)

	e.hooksMu.RLock()
	hooks := make([]AddHook, len(e.hooks))
	copy(hooks, e.hooks)
	e.hooksMu.RUnlock()
	for _, hook := range hooks {
		hook(ctx, a.Clone())
	}
	return a, nil
}

func (e *Engine) Get(id int64) (article.Article, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Get(id)
}

// Load replaces every article and rebuilds the index from scratch.
func (e *Engine) Load(articles []article.Article) {
	e.mu.Lock()
	e.store.Load(articles)
	e.index.Rebuild(e.store.All())
	e.generation.Add(1)
	stats := e.statsLocked()
	e.mu.Unlock()

	e.logger.Info("index rebuilt",
		"articles", stats.Articles,
		"next_id", stats.NextID,
		"keywords", stats.Index.Keywords,
		"tags", stats.Index.Tags,
	)
}

// Candidates collects, under one read lock, every article whose keyword or
// tag buckets contain any of terms. Each article appears once, in the order
// it was first met walking terms in order, keyword bucket before tag bucket.
func (e *Engine) Candidates(terms []string) []article.Article {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[int64]struct{})
	order := make([]int64, 0)
	collect := func(ids index.PostingList) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}
	for _, term := range terms {
		collect(e.index.LookupKeyword(term))
		collect(e.index.LookupTag(term))
	}

	result := make([]article.Article, 0, len(order))
	for _, id := range order {
		a, err := e.store.Get(id)
		if err != nil {
			// ids only enter the index through Add or Load, so this is a bug
			e.logger.Error("indexed article missing from store", "id", id)
			continue
		}
		result = append(result, a)
	}
	return result
}

// Snapshot returns a copy of all articles in store order.
func (e *Engine) Snapshot() []article.Article {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.All()
}

// Generation identifies the current contents; it changes on every mutation.
func (e *Engine) Generation() uint64 {
	return e.generation.Load()
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statsLocked()
}

func (e *Engine) statsLocked() Stats {
	return Stats{
		Articles:   e.store.Len(),
		NextID:     e.store.NextID(),
		Generation: e.generation.Load(),
		Index:      e.index.Stats(),
	}
}
