// Package index implements the inverted index over articles: one map from
// keyword to article identifiers and one from tag to article identifiers.
// The index is not safe for concurrent use; the engine guards it.
package index

import (
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer/tokenizer"
)

type Index struct {
	keywords        map[string]PostingList
	tags            map[string]PostingList
	keywordPostings int
	tagPostings     int
}

func New() *Index {
	return &Index{
		keywords: make(map[string]PostingList),
		tags:     make(map[string]PostingList),
	}
}

// IndexArticle appends the article's id to the bucket of every token of its
// title and content, once per occurrence, and to the bucket of every
// lowercased tag.
func (ix *Index) IndexArticle(a article.Article) {
	for _, term := range tokenizer.Terms(a.Text()) {
		ix.keywords[term] = append(ix.keywords[term], a.ID)
		ix.keywordPostings++
	}
	for _, tag := range a.Tags {
		key := tokenizer.Normalize(tag)
		ix.tags[key] = append(ix.tags[key], a.ID)
		ix.tagPostings++
	}
}

// Rebuild clears both maps and indexes articles in the given order.
func (ix *Index) Rebuild(articles []article.Article) {
	ix.keywords = make(map[string]PostingList)
	ix.tags = make(map[string]PostingList)
	ix.keywordPostings = 0
	ix.tagPostings = 0
	for _, a := range articles {
		ix.IndexArticle(a)
	}
}

// LookupKeyword returns the keyword bucket for term, or nil. The returned
// slice must not be modified.
func (ix *Index) LookupKeyword(term string) PostingList {
	return ix.keywords[tokenizer.Normalize(term)]
}

// LookupTag returns the tag bucket for term, or nil. The returned slice must
// not be modified.
func (ix *Index) LookupTag(term string) PostingList {
	return ix.tags[tokenizer.Normalize(term)]
}

func (ix *Index) Stats() Stats {
	return Stats{
		Keywords:        len(ix.keywords),
		Tags:            len(ix.tags),
		KeywordPostings: ix.keywordPostings,
		TagPostings:     ix.tagPostings,
	}
}
