package aggregate

import "github.com/tair/storefront/internal/storefront/client"

// StockStatus is the shopper-facing availability label
type StockStatus string

const (
	StockInStock  StockStatus = "in_stock"
	StockLow      StockStatus = "low_stock"
	StockSoldOut  StockStatus = "sold_out"
	lowStockLimit             = 10
)

// StockStatusFor labels a stock count
func StockStatusFor(stock int) StockStatus {
	switch {
	case stock > lowStockLimit:
		return StockInStock
	case stock > 0:
		return StockLow
	default:
		return StockSoldOut
	}
}

// Sources named in ProductView.Degraded
const (
	SourceReviews  = "reviews"
	SourceFavorite = "favorite"
)

// ReviewsView summarises reviews for a product page. Average is nil when there are no reviews.
type ReviewsView struct {
	Average *float64        `json:"average"`
	Count   int             `json:"count"`
	Sample  []client.Review `json:"sample"`
	HasMore bool            `json:"has_more"`
}

// ProductView is everything the product detail page renders
type ProductView struct {
	Product     *client.Product `json:"product"`
	StockStatus StockStatus     `json:"stock_status"`
	Reviews     ReviewsView     `json:"reviews"`
	IsFavorite  bool            `json:"is_favorite"`
	LoggedIn    bool            `json:"logged_in"`
	// Degraded lists the auxiliary sources that fell back to defaults
	Degraded []string `json:"degraded,omitempty"`
}

func emptyReviews() ReviewsView {
	return ReviewsView{Sample: []client.Review{}}
}

func reviewsView(summary *client.ReviewSummary, sampleSize int) ReviewsView {
	view := emptyReviews()
	if summary == nil {
		return view
	}

	view.Count = summary.Count
	if summary.Count > 0 {
		avg := summary.Average
		view.Average = &avg
	}

	sample := summary.Reviews
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	view.Sample = append(view.Sample, sample...)
	view.HasMore = summary.Count > sampleSize
	return view
}
