package snapshot

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/postgres"
)

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	cfg := config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "articlesearch_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "articlesearch"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
	db, err := postgres.New(context.Background(), cfg)
	if err != nil {
		t.Skipf("skipping: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	require.NoError(t, db.Exec(ctx, "DROP TABLE IF EXISTS article_snapshots"))

	store, err := NewPostgresStore(ctx, db)
	require.NoError(t, err)

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := sampleArticles()
	require.NoError(t, store.Save(ctx, want[:1]))
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var rows int
	require.NoError(t, db.DB.QueryRowContext(ctx, "SELECT count(*) FROM article_snapshots").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestPostgresClient_HealthCheck(t *testing.T) {
	db := skipIfNoPostgres(t)

	checker := health.NewChecker()
	checker.Register("postgres", health.PingCheck(db.Ping, health.StatusDown))
	report := checker.Run(context.Background())
	assert.Equal(t, health.StatusUp, report.Status)
}
