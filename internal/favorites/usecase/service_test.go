package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/favorites/usecase/query"
)

const (
	tokenA = "token-user-a"
	tokenB = "token-user-b"
)

func newTestService(repo domain.FavoriteRepository, events domain.EventPublisher) *FavoritesService {
	resolver := tokenResolver{tokenA: 1, tokenB: 2}
	return NewFavoritesService(
		resolver,
		command.NewAddFavoriteHandler(repo, events),
		command.NewRemoveFavoriteHandler(repo, events),
		query.NewCheckFavoriteHandler(repo),
		query.NewListFavoritesHandler(repo),
	)
}

func TestParseProductID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "5", want: 5},
		{raw: " 42 ", want: 42},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "5.0", want: 5},
		{raw: "7e0", want: 7},
		{raw: "0.0", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "Inf", wantErr: true},
		{raw: "1e300", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseProductID(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidProductID)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFavoritesService_AddCheckRemove(t *testing.T) {
	repo := &memoryRepository{}
	events := &recordingPublisher{}
	svc := newTestService(repo, events)
	ctx := context.Background()

	exists, err := svc.CheckFavorite(ctx, tokenA, "5")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, svc.AddFavorite(ctx, tokenA, "5"))
	require.NoError(t, svc.AddFavorite(ctx, tokenA, "5"))

	exists, err = svc.CheckFavorite(ctx, tokenA, "5")
	require.NoError(t, err)
	assert.True(t, exists)

	favorites, err := svc.ListFavorites(ctx, tokenA)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	deleted, err := svc.RemoveFavorite(ctx, tokenA, "5")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = svc.RemoveFavorite(ctx, tokenA, "5")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	exists, err = svc.CheckFavorite(ctx, tokenA, "5")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFavoritesService_UsersAreIsolated(t *testing.T) {
	svc := newTestService(&memoryRepository{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, tokenA, "7"))

	exists, err := svc.CheckFavorite(ctx, tokenB, "7")
	require.NoError(t, err)
	assert.False(t, exists)

	favorites, err := svc.ListFavorites(ctx, tokenB)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestFavoritesService_ListNewestFirst(t *testing.T) {
	svc := newTestService(&memoryRepository{}, nil)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, svc.AddFavorite(ctx, tokenA, id))
	}

	favorites, err := svc.ListFavorites(ctx, tokenA)
	require.NoError(t, err)
	require.Len(t, favorites, 3)
	assert.Equal(t, int64(3), favorites[0].ProductID)
	assert.Equal(t, int64(1), favorites[2].ProductID)
}

func TestFavoritesService_UnauthorizedBeforeValidation(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.CheckFavorite(ctx, "", "abc")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = svc.AddFavorite(ctx, "forged", "0")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.RemoveFavorite(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.ListFavorites(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Zero(t, repo.callCount, "store must not be touched")
}

func TestFavoritesService_InvalidProductID(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	for _, raw := range []string{"abc", "0", "-4", ""} {
		_, err := svc.CheckFavorite(ctx, tokenA, raw)
		assert.ErrorIs(t, err, domain.ErrInvalidProductID)

		err = svc.AddFavorite(ctx, tokenA, raw)
		assert.ErrorIs(t, err, domain.ErrInvalidProductID)

		_, err = svc.RemoveFavorite(ctx, tokenA, raw)
		assert.ErrorIs(t, err, domain.ErrInvalidProductID)
	}

	assert.Zero(t, repo.callCount)
}

func TestFavoritesService_StorageFailure(t *testing.T) {
	svc := newTestService(&memoryRepository{failWith: errDatabaseDown}, nil)
	ctx := context.Background()

	_, err := svc.CheckFavorite(ctx, tokenA, "1")
	assert.ErrorIs(t, err, domain.ErrStorage)

	err = svc.AddFavorite(ctx, tokenA, "1")
	assert.ErrorIs(t, err, domain.ErrStorage)

	_, err = svc.RemoveFavorite(ctx, tokenA, "1")
	assert.ErrorIs(t, err, domain.ErrStorage)

	_, err = svc.ListFavorites(ctx, tokenA)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestFavoritesService_ConcurrentAddsStoreOnce(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.AddFavorite(ctx, tokenA, "9"))
		}()
	}
	wg.Wait()

	favorites, err := svc.ListFavorites(ctx, tokenA)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestFavoritesService_PublishesEvents(t *testing.T) {
	events := &recordingPublisher{}
	svc := newTestService(&memoryRepository{}, events)
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, tokenA, "3"))
	_, err := svc.RemoveFavorite(ctx, tokenA, "3")
	require.NoError(t, err)
	_, err = svc.RemoveFavorite(ctx, tokenA, "3")
	require.NoError(t, err)

	require.Len(t, events.events, 2)
	assert.Equal(t, domain.EventTypeFavoriteAdded, events.events[0].EventType)
	assert.Equal(t, domain.EventTypeFavoriteRemoved, events.events[1].EventType)
	assert.Equal(t, int64(1), events.events[0].UserID)
	assert.Equal(t, int64(3), events.events[0].ProductID)
	assert.NotEmpty(t, events.events[0].EventID)
}

func TestFavoritesService_PublishFailureDoesNotFailMutation(t *testing.T) {
	svc := newTestService(&memoryRepository{}, &recordingPublisher{err: errors.New("broker down")})

	assert.NoError(t, svc.AddFavorite(context.Background(), tokenA, "3"))
}
