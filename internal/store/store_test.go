package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	apperrors "github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/errors"
)

func fixedClock() func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func TestAdd_AssignsSequentialIDsFromOne(t *testing.T) {
	s := New().WithClock(fixedClock())

	for want := int64(1); want <= 3; want++ {
		a, err := s.Add("title", "content", nil)
		require.NoError(t, err)
		assert.Equal(t, want, a.ID)
	}
	assert.Equal(t, int64(4), s.NextID())
	assert.Equal(t, 3, s.Len())
}

func TestAdd_RejectsEmptyFieldsWithoutConsumingID(t *testing.T) {
	s := New()

	cases := []struct{ title, content string }{
		{"", "content"},
		{"title", ""},
		{"", ""},
	}
	for _, tc := range cases {
		_, err := s.Add(tc.title, tc.content, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
	}

	a, err := s.Add("ok", "ok", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
}

func TestAdd_RecordsCreationTimeAndTags(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	s := New().WithClock(func() time.Time { return now })

	tags := []string{"pets", "animals"}
	a, err := s.Add("Cats", "Cats are great", tags)
	require.NoError(t, err)

	assert.Equal(t, now, a.CreatedAt.Time)
	assert.Equal(t, []string{"pets", "animals"}, a.Tags)

	tags[0] = "mutated"
	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "pets", got.Tags[0])
}

func TestAdd_NilTagsBecomeEmpty(t *testing.T) {
	s := New()
	a, err := s.Add("t", "c", nil)
	require.NoError(t, err)
	assert.NotNil(t, a.Tags)
	assert.Empty(t, a.Tags)
}

func TestGet(t *testing.T) {
	s := New()
	_, err := s.Add("first", "one", nil)
	require.NoError(t, err)
	_, err = s.Add("second", "two", nil)
	require.NoError(t, err)

	got, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)

	_, err = s.Get(999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrArticleNotFound))
	assert.Equal(t, 404, apperrors.HTTPStatusCode(err))
}

func TestLoad_SetsCounterPastMaxID(t *testing.T) {
	s := New()
	s.Load([]article.Article{
		{ID: 3, Title: "c", Content: "c"},
		{ID: 7, Title: "g", Content: "g"},
		{ID: 5, Title: "e", Content: "e"},
	})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, int64(8), s.NextID())

	a, err := s.Add("next", "one", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(8), a.ID)
}

func TestLoad_EmptyResetsCounter(t *testing.T) {
	s := New()
	_, err := s.Add("t", "c", nil)
	require.NoError(t, err)

	s.Load(nil)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(1), s.NextID())
}

func TestAll_ReturnsCopies(t *testing.T) {
	s := New()
	_, err := s.Add("t", "c", []string{"x"})
	require.NoError(t, err)

	all := s.All()
	all[0].Title = "changed"
	all[0].Tags[0] = "changed"

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, "x", got.Tags[0])
}
