package promotion

import (
	"context"

	"github.com/valetnat/e-commerce/internal/domain"
)

// Repository provides read-only access to promotion records that are active
// right now: is_active set and today inside the validity window. Activation
// flags themselves are maintained elsewhere.
type Repository interface {
	ActiveCartPromotions(ctx context.Context) ([]domain.CartPromotion, error)
	ActiveBundlePromotions(ctx context.Context) ([]domain.BundlePromotion, error)
	ActiveProductPromotions(ctx context.Context) ([]domain.ProductPromotion, error)
}
