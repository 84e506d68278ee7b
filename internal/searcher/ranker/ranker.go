// Package ranker scores candidate articles against query terms and orders
// them.
package ranker

import (
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
)

// Sort modes accepted by Rank. Any other value keeps candidate order.
const (
	SortRelevance = "relevance"
	SortDate      = "date"
)

// Score sums, over terms, the number of possibly overlapping case-insensitive
// substring occurrences of each term in the article's title and content. A
// term inside a longer word counts: "cat" scores on "category".
func Score(a article.Article, terms []string) int {
	text := strings.ToLower(a.Text())
	score := 0
	for _, term := range terms {
		score += countOverlapping(text, strings.ToLower(term))
	}
	return score
}

func countOverlapping(text, term string) int {
	if term == "" {
		return 0
	}
	count := 0
	for i := 0; ; {
		j := strings.Index(text[i:], term)
		if j < 0 {
			return count
		}
		count++
		// advance past the first byte of the match so overlaps are counted
		i += j + 1
		if i >= len(text) {
			return count
		}
	}
}

// Rank scores every candidate and orders the results by sortBy. Both sorts
// are stable, so ties keep candidate order.
func Rank(candidates []article.Article, terms []string, sortBy string) []article.Scored {
	result := make([]article.Scored, 0, len(candidates))
	for _, a := range candidates {
		result = append(result, article.Scored{
			Article:        a,
			RelevanceScore: Score(a, terms),
		})
	}
	switch sortBy {
	case SortRelevance:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].RelevanceScore > result[j].RelevanceScore
		})
	case SortDate:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt.Time)
		})
	}
	return result
}
