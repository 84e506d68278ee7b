package article

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_MarshalISO(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 3, 5, 10, 11, 12, 345678901, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05T10:11:12.345Z"`, string(data))
}

func TestTimestamp_UnmarshalAcceptsRFC3339(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05T12:11:12+02:00"`), &ts))
	assert.Equal(t, time.Date(2024, 3, 5, 10, 11, 12, 0, time.UTC), ts.Time)

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestArticle_JSONShape(t *testing.T) {
	a := Article{
		ID:        1,
		Title:     "Cats and Dogs",
		Content:   "Cats are great pets",
		Tags:      []string{"pets"},
		CreatedAt: NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
	}
	data, err := json.Marshal(Scored{Article: a, RelevanceScore: 2})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 1,
		"title": "Cats and Dogs",
		"content": "Cats are great pets",
		"tags": ["pets"],
		"createdAt": "2024-01-02T03:04:05.000Z",
		"relevanceScore": 2
	}`, string(data))
}

func TestArticle_CloneDoesNotShareTags(t *testing.T) {
	a := Article{Tags: []string{"a", "b"}}
	c := a.Clone()
	c.Tags[0] = "z"
	assert.Equal(t, "a", a.Tags[0])
}

func TestArticle_Text(t *testing.T) {
	assert.Equal(t, "Title body", Article{Title: "Title", Content: "body"}.Text())
}
