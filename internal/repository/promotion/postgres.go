package promotion

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ActiveCartPromotions(ctx context.Context) ([]domain.CartPromotion, error) {
	const q = `
SELECT id, name, weight, value::text, items_from, items_to, price_from::text, price_to::text, active_from, active_to, is_active
FROM cart_promos
WHERE is_active AND CURRENT_DATE BETWEEN active_from AND active_to
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("promotion repo: cart promos error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.CartPromotion
	for rows.Next() {
		var (
			p                  domain.CartPromotion
			value              string
			priceFrom, priceTo *string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight, &value, &p.ItemsFrom, &p.ItemsTo, &priceFrom, &priceTo, &p.ActiveFrom, &p.ActiveTo, &p.IsActive); err != nil {
			return nil, err
		}
		if p.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("parse cart promo %d value: %w", p.ID, err)
		}
		if p.PriceFrom, err = parseDecimalPtr(priceFrom); err != nil {
			return nil, fmt.Errorf("parse cart promo %d price_from: %w", p.ID, err)
		}
		if p.PriceTo, err = parseDecimalPtr(priceTo); err != nil {
			return nil, fmt.Errorf("parse cart promo %d price_to: %w", p.ID, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("promotion repo: cart promos rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) ActiveBundlePromotions(ctx context.Context) ([]domain.BundlePromotion, error) {
	const q = `
SELECT id, name, weight, value::text, active_from, active_to, is_active
FROM bundle_promos
WHERE is_active AND CURRENT_DATE BETWEEN active_from AND active_to
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("promotion repo: bundle promos error=%v", err)
		return nil, err
	}
	defer rows.Close()

	byID := map[int64]*domain.BundlePromotion{}
	var ids []int64
	for rows.Next() {
		var (
			p     domain.BundlePromotion
			value string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight, &value, &p.ActiveFrom, &p.ActiveTo, &p.IsActive); err != nil {
			return nil, err
		}
		if p.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("parse bundle promo %d value: %w", p.ID, err)
		}
		byID[p.ID] = &p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	const setQ = `
SELECT bs.id, bs.promo_id,
       COALESCE(array_agg(DISTINCT bsp.product_id) FILTER (WHERE bsp.product_id IS NOT NULL), '{}'),
       COALESCE(array_agg(DISTINCT bsc.category_id) FILTER (WHERE bsc.category_id IS NOT NULL), '{}')
FROM bundle_sets bs
LEFT JOIN bundle_set_products bsp ON bsp.set_id = bs.id
LEFT JOIN bundle_set_categories bsc ON bsc.set_id = bs.id
WHERE bs.promo_id = ANY($1)
GROUP BY bs.id, bs.promo_id
ORDER BY bs.id
`
	setRows, err := r.pool.Query(ctx, setQ, ids)
	if err != nil {
		r.logger.Printf("promotion repo: bundle sets error=%v", err)
		return nil, err
	}
	defer setRows.Close()

	for setRows.Next() {
		var (
			bundle  domain.Bundle
			promoID int64
		)
		if err := setRows.Scan(&bundle.ID, &promoID, &bundle.ProductIDs, &bundle.CategoryIDs); err != nil {
			return nil, err
		}
		if p, ok := byID[promoID]; ok {
			p.Bundles = append(p.Bundles, bundle)
		}
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.BundlePromotion, 0, len(ids))
	for _, id := range ids {
		result = append(result, *byID[id])
	}
	return result, nil
}

func (r *postgresRepo) ActiveProductPromotions(ctx context.Context) ([]domain.ProductPromotion, error) {
	const q = `
SELECT pp.id, pp.name, pp.weight, pp.value, pp.active_from, pp.active_to, pp.is_active,
       COALESCE(array_agg(DISTINCT ppp.product_id) FILTER (WHERE ppp.product_id IS NOT NULL), '{}'),
       COALESCE(array_agg(DISTINCT ppc.category_id) FILTER (WHERE ppc.category_id IS NOT NULL), '{}')
FROM product_promos pp
LEFT JOIN product_promo_products ppp ON ppp.promo_id = pp.id
LEFT JOIN product_promo_categories ppc ON ppc.promo_id = pp.id
WHERE pp.is_active AND CURRENT_DATE BETWEEN pp.active_from AND pp.active_to
GROUP BY pp.id
ORDER BY pp.id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("promotion repo: product promos error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductPromotion
	for rows.Next() {
		var p domain.ProductPromotion
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight, &p.Value, &p.ActiveFrom, &p.ActiveTo, &p.IsActive, &p.ProductIDs, &p.CategoryIDs); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func parseDecimalPtr(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
