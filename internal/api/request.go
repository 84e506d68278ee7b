package api

import (
	"encoding/json"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// CreateArticleRequest is the body accepted by POST /articles.
type CreateArticleRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// decodeCreateArticle reads the request body. A body that is not a JSON object
// of the expected shape decodes to the zero request, which then fails
// validation like any request missing its title and content.
func decodeCreateArticle(w http.ResponseWriter, r *http.Request) (CreateArticleRequest, bool) {
	var req CreateArticleRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return CreateArticleRequest{}, false
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return CreateArticleRequest{}, false
	}
	return req, true
}
