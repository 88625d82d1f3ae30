package client

import "time"

// Product is the catalog snapshot of a product
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       *int    `json:"stock"`
	ImageURL    string  `json:"image_url"`
}

// StockLevel returns the stock count, treating an unknown stock as zero
func (p *Product) StockLevel() int {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}

// Review is a single product review
type Review struct {
	ID        int64     `json:"id"`
	Score     int       `json:"score"`
	Content   string    `json:"content"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewSummary is the first page of reviews plus aggregate figures
type ReviewSummary struct {
	Reviews []Review
	Average float64
	Count   int
}

// Favorite mirrors a row returned by the favorites service
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}
