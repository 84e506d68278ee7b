package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
)

// Source provides the articles to write. *indexer.Engine implements it.
type Source interface {
	Snapshot() []article.Article
}

// ResultFunc observes the outcome of every write.
type ResultFunc func(err error, articles int, elapsed time.Duration)

// Persister writes full snapshots on its own goroutine. Notify requests a
// write and returns immediately; bursts of requests collapse into one write
// of the latest state. Failures are logged and reported to the ResultFunc,
// never to the caller of Notify.
type Persister struct {
	store   Store
	source  Source
	timeout time.Duration
	onWrite ResultFunc
	logger  *slog.Logger

	dirty chan struct{}
	stop  chan struct{}
	done  chan struct{}

	mu        sync.Mutex
	requested uint64
	completed uint64
	lastErr   error
	progress  chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

type Option func(*Persister)

// WithTimeout bounds each write.
func WithTimeout(d time.Duration) Option {
	return func(p *Persister) { p.timeout = d }
}

// WithResultFunc installs an observer called after every write.
func WithResultFunc(fn ResultFunc) Option {
	return func(p *Persister) { p.onWrite = fn }
}

func NewPersister(store Store, source Source, opts ...Option) *Persister {
	p := &Persister{
		store:    store,
		source:   source,
		timeout:  30 * time.Second,
		logger:   slog.Default().With("component", "persister", "backend", store.Name()),
		dirty:    make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		progress: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the writer goroutine. It is safe to call more than once.
func (p *Persister) Start() {
	p.startOnce.Do(func() {
		go p.run()
		p.logger.Info("persister started")
	})
}

// Notify marks the snapshot dirty. It never blocks.
func (p *Persister) Notify() {
	p.mu.Lock()
	p.requested++
	p.mu.Unlock()
	select {
	case p.dirty <- struct{}{}:
	default:
	}
}

// Flush waits until every write requested before the call has completed and
// returns the error of the most recent write.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.requested
	p.mu.Unlock()
	for {
		p.mu.Lock()
		if p.completed >= target {
			err := p.lastErr
			p.mu.Unlock()
			return err
		}
		ch := p.progress
		p.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// LastError returns the error of the most recent write, or nil.
func (p *Persister) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Close writes any pending snapshot and stops the goroutine.
func (p *Persister) Close() {
	p.Start()
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.done
}

func (p *Persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.dirty:
			p.write()
		case <-p.stop:
			select {
			case <-p.dirty:
				p.write()
			default:
			}
			p.logger.Info("persister stopped")
			return
		}
	}
}

func (p *Persister) write() {
	p.mu.Lock()
	target := p.requested
	p.mu.Unlock()

	start := time.Now()
	articles := p.source.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	err := p.store.Save(ctx, articles)
	cancel()
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("snapshot write failed",
			"articles", len(articles),
			"error", err,
		)
	} else {
		p.logger.Debug("snapshot written",
			"articles", len(articles),
			"elapsed", elapsed,
		)
	}
	if p.onWrite != nil {
		p.onWrite(err, len(articles), elapsed)
	}

	p.mu.Lock()
	p.completed = target
	p.lastErr = err
	close(p.progress)
	p.progress = make(chan struct{})
	p.mu.Unlock()
}
