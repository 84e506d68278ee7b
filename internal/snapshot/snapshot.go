// Package snapshot persists the full article list and restores it at
// startup. Writes happen on a background Persister so an add never waits for,
// or fails because of, disk or database I/O.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	apperrors "github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/errors"
)

// Store reads and writes complete article snapshots.
type Store interface {
	// Load returns the last saved snapshot. A store that has never been
	// written returns an empty slice and no error.
	Load(ctx context.Context) ([]article.Article, error)
	Save(ctx context.Context, articles []article.Article) error
	Name() string
}

// Loader receives the restored articles. *indexer.Engine implements it.
type Loader interface {
	Load(articles []article.Article)
}

// Restore loads the snapshot from s into target. A read failure is logged
// and leaves target empty; it is never fatal. It returns the number of
// articles restored.
func Restore(ctx context.Context, s Store, target Loader) int {
	logger := slog.Default().With("component", "snapshot", "backend", s.Name())
	articles, err := s.Load(ctx)
	if err != nil {
		logger.Warn("snapshot unreadable, starting with an empty store", "error", err)
		return 0
	}
	target.Load(articles)
	logger.Info("snapshot restored", "articles", len(articles))
	return len(articles)
}

func persistenceError(op string, err error) error {
	if errors.Is(err, apperrors.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrPersistence, op, err)
}
