package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts demo catalog and promotion data for manual testing. Re-running
// against a seeded database will add duplicate rows; intended for fresh schemas.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	var electronics, books int64
	if err := pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ('Electronics') RETURNING id`).Scan(&electronics); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ('Books') RETURNING id`).Scan(&books); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	type productSeed struct {
		name     string
		category int64
		price    string
		remains  int
	}
	products := []productSeed{
		{"Headphones", electronics, "500.00", 20},
		{"Keyboard", electronics, "120.50", 35},
		{"Go in Practice", books, "45.90", 50},
		{"Database Internals", books, "61.00", 15},
	}

	productIDs := make([]int64, 0, len(products))
	for _, p := range products {
		var productID int64
		err := pool.QueryRow(ctx, `INSERT INTO products (name, category_id) VALUES ($1, $2) RETURNING id`, p.name, p.category).Scan(&productID)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO offers (product_id, price, remains) VALUES ($1, $2, $3)`, productID, p.price, p.remains); err != nil {
			return fmt.Errorf("seed offer %s: %w", p.name, err)
		}
		productIDs = append(productIDs, productID)
	}

	const cartPromoQ = `
INSERT INTO cart_promos (name, weight, value, items_from, price_from, active_from, active_to, is_active)
VALUES ('Big cart', 0.5, 900.00, 3, 1000.00, CURRENT_DATE - 1, CURRENT_DATE + 30, TRUE)
`
	if _, err := pool.Exec(ctx, cartPromoQ); err != nil {
		return fmt.Errorf("seed cart promo: %w", err)
	}

	var bundlePromoID, setID int64
	const bundlePromoQ = `
INSERT INTO bundle_promos (name, weight, value, active_from, active_to, is_active)
VALUES ('Desk set', 0.6, 50.00, CURRENT_DATE - 1, CURRENT_DATE + 30, TRUE)
RETURNING id
`
	if err := pool.QueryRow(ctx, bundlePromoQ).Scan(&bundlePromoID); err != nil {
		return fmt.Errorf("seed bundle promo: %w", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO bundle_sets (promo_id, name) VALUES ($1, 'Audio') RETURNING id`, bundlePromoID).Scan(&setID); err != nil {
		return fmt.Errorf("seed bundle set: %w", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO bundle_set_products (set_id, product_id) VALUES ($1, $2)`, setID, productIDs[0]); err != nil {
		return fmt.Errorf("seed bundle set product: %w", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO bundle_sets (promo_id, name) VALUES ($1, 'Reading') RETURNING id`, bundlePromoID).Scan(&setID); err != nil {
		return fmt.Errorf("seed bundle set: %w", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO bundle_set_categories (set_id, category_id) VALUES ($1, $2)`, setID, books); err != nil {
		return fmt.Errorf("seed bundle set category: %w", err)
	}

	var productPromoID int64
	const productPromoQ = `
INSERT INTO product_promos (name, weight, value, active_from, active_to, is_active)
VALUES ('Electronics sale', 0.4, 10, CURRENT_DATE - 1, CURRENT_DATE + 30, TRUE)
RETURNING id
`
	if err := pool.QueryRow(ctx, productPromoQ).Scan(&productPromoID); err != nil {
		return fmt.Errorf("seed product promo: %w", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO product_promo_categories (promo_id, category_id) VALUES ($1, $2)`, productPromoID, electronics); err != nil {
		return fmt.Errorf("seed product promo category: %w", err)
	}

	return nil
}
