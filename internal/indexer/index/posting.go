package index

// PostingList is the bucket of article identifiers stored under one key. An
// identifier appears once per occurrence of the key in the article, so the
// same id may repeat.
type PostingList []int64

// Stats summarises the size of an index.
type Stats struct {
	Keywords        int `json:"keywords"`
	Tags            int `json:"tags"`
	KeywordPostings int `json:"keyword_postings"`
	TagPostings     int `json:"tag_postings"`
}
