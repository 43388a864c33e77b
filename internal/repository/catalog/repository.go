package catalog

import (
	"context"

	"github.com/valetnat/e-commerce/internal/domain"
)

type Repository interface {
	GetOffer(ctx context.Context, id int64) (*domain.Offer, error)
	// ProductIDsByCategory returns products filed directly under the category.
	// Subcategories are not expanded; they must be targeted separately.
	ProductIDsByCategory(ctx context.Context, categoryID int64) ([]int64, error)
}
