package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tair/storefront/internal/storefront/client"
	"github.com/tair/storefront/pkg/auth"
	"github.com/tair/storefront/pkg/logger"
)

var tracer = otel.Tracer("storefront-aggregate")

// ErrProductUnavailable means the product view cannot be rendered at all
var ErrProductUnavailable = errors.New("product unavailable")

// CatalogFetcher loads product snapshots
type CatalogFetcher interface {
	GetProduct(ctx context.Context, productID int64) (*client.Product, error)
}

// ReviewFetcher loads review summaries
type ReviewFetcher interface {
	GetSummary(ctx context.Context, productID int64) (*client.ReviewSummary, error)
}

// FavoriteChecker reports a viewer's favorite status for a product
type FavoriteChecker interface {
	Exists(ctx context.Context, credential string, productID int64) (bool, error)
}

// Reader assembles product views from the catalog, reviews and favorites collaborators
type Reader struct {
	catalog    CatalogFetcher
	reviews    ReviewFetcher
	favorites  FavoriteChecker
	resolver   auth.Resolver
	auxTimeout time.Duration
	sampleSize int
	degraded   *prometheus.CounterVec
}

// NewReader creates a new reader and registers its metrics with reg
func NewReader(
	catalog CatalogFetcher,
	reviews ReviewFetcher,
	favorites FavoriteChecker,
	resolver auth.Resolver,
	auxTimeout time.Duration,
	sampleSize int,
	reg prometheus.Registerer,
) *Reader {
	degraded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_product_view_degraded_total",
			Help: "Product views rendered with an auxiliary source replaced by its default",
		},
		[]string{"source"},
	)
	reg.MustRegister(degraded)

	return &Reader{
		catalog:    catalog,
		reviews:    reviews,
		favorites:  favorites,
		resolver:   resolver,
		auxTimeout: auxTimeout,
		sampleSize: sampleSize,
		degraded:   degraded,
	}
}

type result[T any] struct {
	value T
	err   error
}

// Read fetches the product, its reviews and the viewer's favorite status concurrently.
// A catalog failure fails the whole view straight away; reviews and favorite status
// fall back to empty/false when they fail or outlive the auxiliary timeout.
func (r *Reader) Read(ctx context.Context, productID int64, credential string) (*ProductView, error) {
	ctx, span := tracer.Start(ctx, "aggregate.Read")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	identity, loggedIn := r.resolver.Resolve(ctx, credential)
	span.SetAttributes(attribute.Bool("viewer.logged_in", loggedIn))

	// Buffered so branches that finish after Read returned never block.
	catalogCh := make(chan result[*client.Product], 1)
	reviewsCh := make(chan result[*client.ReviewSummary], 1)
	favoriteCh := make(chan result[bool], 1)

	// Auxiliary branches outlive an early return but never their own deadline.
	auxCtx := context.WithoutCancel(ctx)
	auxDeadline, cancelWait := context.WithTimeout(context.Background(), r.auxTimeout)
	defer cancelWait()

	go func() {
		product, err := r.catalog.GetProduct(ctx, productID)
		catalogCh <- result[*client.Product]{product, err}
	}()

	go func() {
		fetchCtx, cancel := context.WithTimeout(auxCtx, r.auxTimeout)
		defer cancel()
		summary, err := r.reviews.GetSummary(fetchCtx, productID)
		reviewsCh <- result[*client.ReviewSummary]{summary, err}
	}()

	if loggedIn {
		go func() {
			fetchCtx, cancel := context.WithTimeout(auxCtx, r.auxTimeout)
			defer cancel()
			exists, err := r.favorites.Exists(fetchCtx, credential, productID)
			favoriteCh <- result[bool]{exists, err}
		}()
	}

	var product *client.Product
	select {
	case res := <-catalogCh:
		if res.err != nil || res.value == nil {
			cause := res.err
			if cause == nil {
				cause = client.ErrProductNotFound
			}
			span.RecordError(cause)
			span.SetStatus(codes.Error, "catalog fetch failed")
			return nil, fmt.Errorf("%w: %w", ErrProductUnavailable, cause)
		}
		product = res.value
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrProductUnavailable, ctx.Err())
	}

	view := &ProductView{
		Product:     product,
		StockStatus: StockStatusFor(product.StockLevel()),
		Reviews:     emptyReviews(),
		LoggedIn:    loggedIn,
	}

	if res, ok := await(reviewsCh, auxDeadline.Done()); !ok {
		r.degrade(ctx, view, SourceReviews, productID, context.DeadlineExceeded)
	} else if res.err != nil {
		r.degrade(ctx, view, SourceReviews, productID, res.err)
	} else {
		view.Reviews = reviewsView(res.value, r.sampleSize)
	}

	if loggedIn {
		if res, ok := await(favoriteCh, auxDeadline.Done()); !ok {
			r.degrade(ctx, view, SourceFavorite, productID, context.DeadlineExceeded)
		} else if res.err != nil {
			r.degrade(ctx, view, SourceFavorite, productID, res.err)
		} else {
			view.IsFavorite = res.value
		}
	}

	logger.Debug(ctx).
		Int64("product_id", productID).
		Int64("user_id", identity.UserID).
		Bool("is_favorite", view.IsFavorite).
		Strs("degraded", view.Degraded).
		Msg("Product view assembled")

	return view, nil
}

// await prefers a result that is already available over an expired deadline
func await[T any](ch chan result[T], deadline <-chan struct{}) (result[T], bool) {
	select {
	case res := <-ch:
		return res, true
	default:
	}

	select {
	case res := <-ch:
		return res, true
	case <-deadline:
		return result[T]{}, false
	}
}

func (r *Reader) degrade(ctx context.Context, view *ProductView, source string, productID int64, err error) {
	view.Degraded = append(view.Degraded, source)
	r.degraded.WithLabelValues(source).Inc()

	logger.Warn(ctx).
		Err(err).
		Str("source", source).
		Int64("product_id", productID).
		Msg("Product view degraded")
}
