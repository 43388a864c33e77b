package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const orderQ = `
INSERT INTO orders (status, total_price, discount_amount)
VALUES ($1, $2, $3)
RETURNING id, created_at
`
	order := domain.Order{
		Status:         domain.OrderStatusCreated,
		TotalPrice:     in.TotalPrice,
		DiscountAmount: in.DiscountAmount,
	}
	err = tx.QueryRow(ctx, orderQ, domain.OrderStatusCreated, in.TotalPrice.StringFixed(2), in.DiscountAmount.StringFixed(2)).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		r.logger.Printf("order repo: create error=%v", err)
		return nil, err
	}

	const lineQ = `
INSERT INTO order_details (order_id, offer_id, quantity)
VALUES ($1, $2, $3)
RETURNING id
`
	const stockQ = `
UPDATE offers SET remains = remains - $2
WHERE id = $1 AND remains >= $2
`
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			continue
		}
		line := domain.OrderLine{OrderID: order.ID, OfferID: l.OfferID, Quantity: l.Quantity}
		if err := tx.QueryRow(ctx, lineQ, order.ID, l.OfferID, l.Quantity).Scan(&line.ID); err != nil {
			r.logger.Printf("order repo: create line offer_id=%d error=%v", l.OfferID, err)
			return nil, err
		}
		tag, err := tx.Exec(ctx, stockQ, l.OfferID, l.Quantity)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("offer %d: insufficient stock", l.OfferID)
		}
		order.Lines = append(order.Lines, line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created order id=%d lines=%d", order.ID, len(order.Lines))
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `
SELECT id, status, total_price::text, discount_amount::text, created_at
FROM orders
WHERE id = $1
`
	var (
		o               domain.Order
		total, discount string
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.Status, &total, &discount, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%d error=%v", id, err)
		return nil, err
	}
	if o.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	if o.DiscountAmount, err = decimal.NewFromString(discount); err != nil {
		return nil, err
	}

	const linesQ = `
SELECT id, order_id, offer_id, quantity
FROM order_details
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, linesQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.OfferID, &l.Quantity); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) TotalPrice(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	const q = `
SELECT COALESCE(SUM(od.quantity * o.price), 0)::text
FROM order_details od
JOIN offers o ON o.id = od.offer_id
WHERE od.order_id = $1
`
	var total string
	if err := r.pool.QueryRow(ctx, q, orderID).Scan(&total); err != nil {
		r.logger.Printf("order repo: total price order_id=%d error=%v", orderID, err)
		return decimal.Zero, err
	}
	return decimal.NewFromString(total)
}

func (r *postgresRepo) BeginSettlement(ctx context.Context, orderID int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if err := setStatus(ctx, tx, orderID, domain.OrderStatusNotPaid); err != nil {
		return 0, err
	}

	const recordQ = `
INSERT INTO payment_records (order_id)
VALUES ($1)
RETURNING id
`
	var recordID int64
	if err := tx.QueryRow(ctx, recordQ, orderID).Scan(&recordID); err != nil {
		r.logger.Printf("order repo: begin settlement order_id=%d error=%v", orderID, err)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return recordID, nil
}

func (r *postgresRepo) RecordInvalidSubmission(ctx context.Context, orderID int64, message string) error {
	payload, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := setStatus(ctx, tx, orderID, domain.OrderStatusNotPaid); err != nil {
		return err
	}

	const recordQ = `
INSERT INTO payment_records (order_id, gateway_response)
VALUES ($1, $2)
`
	if _, err := tx.Exec(ctx, recordQ, orderID, payload); err != nil {
		r.logger.Printf("order repo: invalid submission order_id=%d error=%v", orderID, err)
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) CompleteSettlement(ctx context.Context, orderID, recordID int64, paid bool, response []byte) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if paid {
		if err := setStatus(ctx, tx, orderID, domain.OrderStatusPaid); err != nil {
			return err
		}
	}

	const recordQ = `
UPDATE payment_records SET gateway_response = $2
WHERE id = $1
`
	if _, err := tx.Exec(ctx, recordQ, recordID, response); err != nil {
		r.logger.Printf("order repo: complete settlement order_id=%d record_id=%d error=%v", orderID, recordID, err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("order repo: settlement finished order_id=%d paid=%t", orderID, paid)
	return nil
}

func (r *postgresRepo) PaymentRecords(ctx context.Context, orderID int64) ([]domain.PaymentRecord, error) {
	const q = `
SELECT id, order_id, gateway_response, created_at
FROM payment_records
WHERE order_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PaymentRecord
	for rows.Next() {
		var rec domain.PaymentRecord
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.GatewayResponse, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func setStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) error {
	const q = `UPDATE orders SET status = $2 WHERE id = $1`
	tag, err := tx.Exec(ctx, q, orderID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
