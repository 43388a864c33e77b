package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	const q = `
SELECT id, product_id, price::text, remains
FROM offers
WHERE id = $1
`
	var (
		o     domain.Offer
		price string
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.ProductID, &price, &o.Remains)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("catalog repo: offer id=%d not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: offer id=%d error=%v", id, err)
		return nil, err
	}
	if o.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ProductIDsByCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	const q = `
SELECT id
FROM products
WHERE category_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, categoryID)
	if err != nil {
		r.logger.Printf("catalog repo: products by category=%d error=%v", categoryID, err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
