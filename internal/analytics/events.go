package analytics

import "time"

type EventType string

const (
	EventSearch         EventType = "search"
	EventZeroResult     EventType = "zero_result"
	EventArticleCreated EventType = "article_created"
)

type SearchEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Terms     []string  `json:"terms"`
	SortBy    string    `json:"sort"`
	Results   int       `json:"results"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

type ArticleEvent struct {
	Type      EventType `json:"type"`
	ArticleID int64     `json:"article_id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Tokens    int       `json:"tokens"`
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the Kafka partition key for an event.
func Key(event any) string {
	switch e := event.(type) {
	case ArticleEvent:
		return "article"
	case SearchEvent:
		return "search:" + string(e.Type)
	default:
		return "analytics"
	}
}
