package parser

import (
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer/tokenizer"
)

// QueryPlan is a tokenised search query. Every term is matched against both
// the keyword and the tag index and the matches are OR-ed together.
type QueryPlan struct {
	Terms    []string
	RawQuery string
}

func Parse(query string) *QueryPlan {
	return &QueryPlan{
		Terms:    tokenizer.Terms(query),
		RawQuery: query,
	}
}

// Empty reports whether the query produced no terms.
func (p *QueryPlan) Empty() bool {
	return len(p.Terms) == 0
}
