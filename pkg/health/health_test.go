package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(ctx context.Context) ComponentHealth { return ComponentHealth{Status: StatusUp} }

func TestRun_AllUp(t *testing.T) {
	c := NewChecker()
	c.Register("engine", up)
	c.Register("snapshot", up)

	report := c.Run(context.Background())
	assert.Equal(t, StatusUp, report.Status)
	assert.Len(t, report.Components, 2)
	assert.NotEmpty(t, report.Components["engine"].Latency)
}

func TestRun_WorstStatusWins(t *testing.T) {
	c := NewChecker()
	c.Register("engine", up)
	c.Register("snapshot", LastErrorCheck(func() error { return errors.New("disk full") }))
	assert.Equal(t, StatusDegraded, c.Run(context.Background()).Status)

	c.Register("postgres", PingCheck(func(ctx context.Context) error {
		return errors.New("connection refused")
	}, StatusDown))
	report := c.Run(context.Background())
	assert.Equal(t, StatusDown, report.Status)
	assert.Equal(t, "connection refused", report.Components["postgres"].Message)
}

func TestReadyHandler(t *testing.T) {
	c := NewChecker()
	c.Register("redis", PingCheck(func(ctx context.Context) error {
		return errors.New("timeout")
	}, StatusDegraded))

	rec := httptest.NewRecorder()
	c.ReadyHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StatusDegraded, report.Status)

	c.Register("postgres", PingCheck(func(ctx context.Context) error {
		return errors.New("gone")
	}, StatusDown))
	rec = httptest.NewRecorder()
	c.ReadyHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewChecker().LiveHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}
