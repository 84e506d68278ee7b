package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/postgres"
)

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS article_snapshots (
	id            BIGSERIAL PRIMARY KEY,
	payload       JSONB NOT NULL,
	article_count INTEGER NOT NULL,
	saved_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps the snapshot as a JSONB row. Each save inserts a new
// row and prunes the older ones in the same transaction.
type PostgresStore struct {
	client *postgres.Client
}

// NewPostgresStore creates the snapshot table if it does not exist.
func NewPostgresStore(ctx context.Context, client *postgres.Client) (*PostgresStore, error) {
	if err := client.Exec(ctx, createSnapshotsTable); err != nil {
		return nil, persistenceError("creating snapshot table", err)
	}
	return &PostgresStore{client: client}, nil
}

func (p *PostgresStore) Name() string {
	return "postgres"
}

func (p *PostgresStore) Load(ctx context.Context) ([]article.Article, error) {
	var payload []byte
	err := p.client.DB.QueryRowContext(ctx,
		`SELECT payload FROM article_snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []article.Article{}, nil
	}
	if err != nil {
		return nil, persistenceError("querying snapshot", err)
	}
	var articles []article.Article
	if err := json.Unmarshal(payload, &articles); err != nil {
		return nil, persistenceError("parsing snapshot payload", err)
	}
	if articles == nil {
		articles = []article.Article{}
	}
	return articles, nil
}

func (p *PostgresStore) Save(ctx context.Context, articles []article.Article) error {
	if articles == nil {
		articles = []article.Article{}
	}
	payload, err := json.Marshal(articles)
	if err != nil {
		return persistenceError("marshaling snapshot", err)
	}
	err = p.client.InTx(ctx, func(tx *sql.Tx) error {
		var id int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO article_snapshots (payload, article_count) VALUES ($1, $2) RETURNING id`,
			payload, len(articles),
		).Scan(&id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM article_snapshots WHERE id < $1`, id)
		return err
	})
	if err != nil {
		return persistenceError("saving snapshot", err)
	}
	return nil
}
