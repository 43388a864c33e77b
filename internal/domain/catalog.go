package domain

import "github.com/shopspring/decimal"

// Category is a flat parent/child grouping of products. Promotion targeting by
// category matches products filed directly under it, not descendants.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
}

type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
}

// Offer is a shop's priced, quantity-limited listing of a product.
type Offer struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Remains   int             `json:"remains"`
}
