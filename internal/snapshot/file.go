package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
)

// FileStore keeps the snapshot as one pretty-printed JSON array.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Name() string {
	return "file"
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(ctx context.Context) ([]article.Article, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []article.Article{}, nil
	}
	if err != nil {
		return nil, persistenceError("reading snapshot file", err)
	}
	var articles []article.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, persistenceError("parsing snapshot file", err)
	}
	if articles == nil {
		articles = []article.Article{}
	}
	return articles, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the snapshot, so a crash mid-write leaves the previous snapshot intact.
func (f *FileStore) Save(ctx context.Context, articles []article.Article) error {
	if articles == nil {
		articles = []article.Article{}
	}
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return persistenceError("marshaling snapshot", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return persistenceError("creating snapshot directory", err)
		}
	}
	tmpPath := f.path + ".tmp"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return persistenceError("creating temp snapshot file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistenceError("writing snapshot", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistenceError("syncing snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return persistenceError("closing snapshot", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return persistenceError("renaming snapshot", err)
	}
	return nil
}
