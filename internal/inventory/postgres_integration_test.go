//go:build integration

package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/andreasstove999/grocery-service-go/internal/db"
)

func TestPostgresRepository_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("inventory"),
		postgres.WithUsername("grocery"),
		postgres.WithPassword("grocery"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(dsn, zerolog.Nop()))

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	store := NewStore(NewPostgresRepository(pool), zerolog.Nop())
	require.NoError(t, store.Load(ctx))

	_, err = store.AddOrUpdate(ctx, "Rice", d("55"), d("30"))
	require.NoError(t, err)
	_, err = store.AddOrUpdate(ctx, "Sugar", d("42"), d("20"))
	require.NoError(t, err)
	_, err = store.ReserveStock(ctx, "rice", d("2.5"))
	require.NoError(t, err)

	reloaded := NewStore(NewPostgresRepository(pool), zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))

	list := reloaded.ListAll()
	require.Len(t, list, 2)
	assert.Equal(t, "Rice", list[0].Name)
	assertDecimal(t, "27.5", list[0].Stock)
	assert.Equal(t, "Sugar", list[1].Name)
}
