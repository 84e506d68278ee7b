package executor

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/errors"
)

// CandidateSource resolves query terms to the articles whose keyword or tag
// buckets contain them. *indexer.Engine implements it.
type CandidateSource interface {
	Candidates(terms []string) []article.Article
	Generation() uint64
}

type SearchResult struct {
	Query      string           `json:"query"`
	Terms      []string         `json:"terms"`
	SortBy     string           `json:"sort"`
	Generation uint64           `json:"generation"`
	Results    []article.Scored `json:"results"`
}

type Executor struct {
	source CandidateSource
	logger *slog.Logger
}

func New(source CandidateSource) *Executor {
	return &Executor{
		source: source,
		logger: slog.Default().With("component", "query-executor"),
	}
}

// Search validates and parses query, then executes it.
func (e *Executor) Search(ctx context.Context, query string, sortBy string) (*SearchResult, error) {
	if query == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "Search query is required")
	}
	return e.Execute(ctx, parser.Parse(query), sortBy)
}

// Execute collects candidates for every term, scores them and sorts them.
// A plan with no terms yields an empty result.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan, sortBy string) (*SearchResult, error) {
	generation := e.source.Generation()
	if plan.Empty() {
		return &SearchResult{
			Query:      plan.RawQuery,
			Terms:      plan.Terms,
			SortBy:     sortBy,
			Generation: generation,
			Results:    []article.Scored{},
		}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := e.source.Candidates(plan.Terms)
	ranked := ranker.Rank(candidates, plan.Terms, sortBy)

	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"terms", plan.Terms,
		"sort", sortBy,
		"results", len(ranked),
	)
	return &SearchResult{
		Query:      plan.RawQuery,
		Terms:      plan.Terms,
		SortBy:     sortBy,
		Generation: generation,
		Results:    ranked,
	}, nil
}
