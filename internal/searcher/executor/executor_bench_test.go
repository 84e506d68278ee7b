package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/ranker"
)

var benchTopics = []string{"search", "index", "cache", "kafka", "postgres", "redis", "metrics", "ranking"}

// BenchmarkSearch measures a full query against an engine holding n articles.
func BenchmarkSearch(b *testing.B) {
	for _, n := range []int{1000, 10000} {
		engine := indexer.NewEngine()
		ctx := context.Background()
		for i := 0; i < n; i++ {
			topic := benchTopics[i%len(benchTopics)]
			_, err := engine.Add(ctx,
				fmt.Sprintf("Notes on %s %d", topic, i),
				fmt.Sprintf("How %s works and why %s matters for article %d", topic, topic, i),
				[]string{topic, "engineering"},
			)
			if err != nil {
				b.Fatal(err)
			}
		}
		exec := New(engine)

		b.Run(fmt.Sprintf("articles_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := exec.Search(ctx, "search cache", ranker.SortRelevance); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
