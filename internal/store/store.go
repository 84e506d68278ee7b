// Package store holds the canonical, append-only list of articles and the
// identifier counter. It performs no locking; the indexer engine serialises
// access.
package store

import (
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	apperrors "github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/errors"
)

// Store owns the articles in insertion order.
type Store struct {
	articles []article.Article
	nextID   int64
	now      func() time.Time
}

func New() *Store {
	return &Store{
		articles: make([]article.Article, 0),
		nextID:   1,
		now:      time.Now,
	}
}

// WithClock replaces the creation-time source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Add validates and appends a new article. A failed add does not consume an
// identifier.
func (s *Store) Add(title, content string, tags []string) (article.Article, error) {
	if title == "" || content == "" {
		return article.Article{}, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "Title and content are required")
	}
	ownedTags := make([]string, len(tags))
	copy(ownedTags, tags)
	a := article.Article{
		ID:        s.nextID,
		Title:     title,
		Content:   content,
		Tags:      ownedTags,
		CreatedAt: article.NewTimestamp(s.now()),
	}
	s.nextID++
	s.articles = append(s.articles, a)
	return a.Clone(), nil
}

// Get scans the articles in order and returns the first with the given id.
func (s *Store) Get(id int64) (article.Article, error) {
	for _, a := range s.articles {
		if a.ID == id {
			return a.Clone(), nil
		}
	}
	return article.Article{}, apperrors.New(apperrors.ErrArticleNotFound, http.StatusNotFound, "Article not found")
}

// Load replaces the article set wholesale and resets the counter to one past
// the highest identifier.
func (s *Store) Load(articles []article.Article) {
	s.articles = make([]article.Article, 0, len(articles))
	var maxID int64
	for _, a := range articles {
		c := a.Clone()
		if c.Tags == nil {
			c.Tags = []string{}
		}
		s.articles = append(s.articles, c)
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	s.nextID = maxID + 1
}

// All returns a copy of every article in store order.
func (s *Store) All() []article.Article {
	out := make([]article.Article, len(s.articles))
	for i, a := range s.articles {
		out[i] = a.Clone()
	}
	return out
}

func (s *Store) Len() int {
	return len(s.articles)
}

func (s *Store) NextID() int64 {
	return s.nextID
}
