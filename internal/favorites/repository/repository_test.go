package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tair/storefront/pkg/database"
)

func setupTestRepository(t *testing.T) *GormFavoriteRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed repository test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("favorites"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	sqlDB, err := database.NewPostgresConnection(ctx, database.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "favorites",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.RunMigrations(sqlDB, Migrations, MigrationsDir))

	gormDB, err := database.NewGormConnection(sqlDB)
	require.NoError(t, err)

	return NewGormFavoriteRepository(gormDB)
}

func TestGormFavoriteRepository(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	t.Run("insert then exists", func(t *testing.T) {
		exists, err := repo.Exists(ctx, 1, 10)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, repo.InsertIfAbsent(ctx, 1, 10))

		exists, err = repo.Exists(ctx, 1, 10)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate insert is absorbed", func(t *testing.T) {
		require.NoError(t, repo.InsertIfAbsent(ctx, 2, 20))
		require.NoError(t, repo.InsertIfAbsent(ctx, 2, 20))

		favorites, err := repo.ListForUser(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, favorites, 1)
	})

	t.Run("concurrent inserts leave one row", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.InsertIfAbsent(ctx, 3, 30)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		favorites, err := repo.ListForUser(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, favorites, 1)
	})

	t.Run("delete reports affected rows", func(t *testing.T) {
		require.NoError(t, repo.InsertIfAbsent(ctx, 4, 40))

		deleted, err := repo.Delete(ctx, 4, 40)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		deleted, err = repo.Delete(ctx, 4, 40)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
	})

	t.Run("list is newest first and scoped to the user", func(t *testing.T) {
		for _, productID := range []int64{51, 52, 53} {
			require.NoError(t, repo.InsertIfAbsent(ctx, 5, productID))
		}
		require.NoError(t, repo.InsertIfAbsent(ctx, 6, 99))

		favorites, err := repo.ListForUser(ctx, 5)
		require.NoError(t, err)
		require.Len(t, favorites, 3)
		assert.Equal(t, int64(53), favorites[0].ProductID)
		assert.Equal(t, int64(52), favorites[1].ProductID)
		assert.Equal(t, int64(51), favorites[2].ProductID)
		for _, f := range favorites {
			assert.Equal(t, int64(5), f.UserID)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		favorites, err := repo.ListForUser(ctx, 404)
		require.NoError(t, err)
		assert.NotNil(t, favorites)
		assert.Empty(t, favorites)
	})
}
