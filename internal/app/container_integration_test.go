//go:build integration

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"service-bidding/internal/config"
	"service-bidding/internal/domain"
	"service-bidding/internal/http/middleware/auth"
	"service-bidding/internal/logx"
	"service-bidding/internal/ports/bidtx"
	"service-bidding/internal/repository"
)

func TestBuild_PostgresBackend_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := memoryConfig()
	cfg.Storage = config.StoragePostgres
	b := newTestBuilder(cfg).
		WithMigrate(func(string) error { return repository.Migrate(dsn) }).
		WithDBConnect(func(ctx context.Context, logger logx.Logger, _ string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
			return connectDbWithRetry(ctx, logger, dsn, retries, delay)
		})

	c, err := b.build(ctx)
	require.NoError(t, err)

	err = c.Invoke(func(store bidtx.Store, h http.Handler, v *auth.Verifier, closeFn closeStore) {
		defer closeFn()
		require.IsType(t, &repository.Store{}, store)

		token, err := v.Issue(domain.Requester{ID: "customer-1", Role: domain.RoleCustomer}, time.Minute)
		require.NoError(t, err)

		body := `{"kind":"P2P","description":"keys","pickup":{"address":"A"},"dropoff":{"address":"B"}}`
		req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
	require.NoError(t, err)
}
