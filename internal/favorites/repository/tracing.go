package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/internal/favorites/domain"
)

var tracer = otel.Tracer("favorites-repository")

// FavoriteRepositoryWithTracing wraps a FavoriteRepository with spans
type FavoriteRepositoryWithTracing struct {
	next domain.FavoriteRepository
}

// NewFavoriteRepositoryWithTracing creates a new repository with tracing
func NewFavoriteRepositoryWithTracing(next domain.FavoriteRepository) *FavoriteRepositoryWithTracing {
	return &FavoriteRepositoryWithTracing{next: next}
}

func pairAttributes(userID, productID int64) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.Int64("favorite.user_id", userID),
		attribute.Int64("favorite.product_id", productID),
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", "favorites"),
	)
}

// Exists with tracing
func (r *FavoriteRepositoryWithTracing) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.Exists", pairAttributes(userID, productID))
	defer span.End()

	exists, err := r.next.Exists(ctx, userID, productID)
	if err != nil {
		addDBErrorToSpan(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("favorite.exists", exists))
	return exists, nil
}

// InsertIfAbsent with tracing
func (r *FavoriteRepositoryWithTracing) InsertIfAbsent(ctx context.Context, userID, productID int64) error {
	ctx, span := tracer.Start(ctx, "repository.InsertIfAbsent", pairAttributes(userID, productID))
	defer span.End()

	if err := r.next.InsertIfAbsent(ctx, userID, productID); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// Delete with tracing
func (r *FavoriteRepositoryWithTracing) Delete(ctx context.Context, userID, productID int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Delete", pairAttributes(userID, productID))
	defer span.End()

	deleted, err := r.next.Delete(ctx, userID, productID)
	if err != nil {
		addDBErrorToSpan(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("favorite.deleted", deleted))
	return deleted, nil
}

// ListForUser with tracing
func (r *FavoriteRepositoryWithTracing) ListForUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.ListForUser",
		trace.WithAttributes(
			attribute.Int64("favorite.user_id", userID),
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", "favorites"),
		),
	)
	defer span.End()

	favorites, err := r.next.ListForUser(ctx, userID)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("favorite.count", len(favorites)))
	return favorites, nil
}

func addDBErrorToSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
