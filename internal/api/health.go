package api

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/health"
)

// StatsSource reports engine size. *indexer.Engine implements it.
type StatsSource interface {
	Stats() indexer.Stats
}

// EngineCheck is always up; its message carries the current article and
// keyword counts.
func EngineCheck(engine StatsSource) health.Check {
	return func(ctx context.Context) health.ComponentHealth {
		stats := engine.Stats()
		return health.ComponentHealth{
			Status: health.StatusUp,
			Message: fmt.Sprintf("%d articles, %d keywords, %d tags",
				stats.Articles, stats.Index.Keywords, stats.Index.Tags),
		}
	}
}
