// Package article defines the Article record shared by the store, the index,
// the search pipeline and the snapshot adapters.
package article

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form createdAt is written in: UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a creation time that serialises as an ISO-8601 string.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to milliseconds so an article compares equal to
// itself after a snapshot round trip.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parsing createdAt %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// Article is immutable once created.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Text is the searchable body of the article: title and content joined by a
// single space.
func (a Article) Text() string {
	return a.Title + " " + a.Content
}

// Clone returns a copy that shares no slices with a.
func (a Article) Clone() Article {
	c := a
	c.Tags = make([]string, len(a.Tags))
	copy(c.Tags, a.Tags)
	return c
}

// Scored is an article decorated with its relevance score for one query.
type Scored struct {
	Article
	RelevanceScore int `json:"relevanceScore"`
}
