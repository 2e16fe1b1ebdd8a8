package repository

import (
	"context"
	"fmt"
	"time"

	"store-manager/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetProductForShare reads a product and takes a share lock on its row.
func (r *orderRepository) GetProductForShare(ctx context.Context, tx pgx.Tx, productID int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR SHARE`

	var p model.Product
	if err := scanProduct(tx.QueryRow(ctx, query, productID), &p); err != nil {
		if isNoRows(err) {
			r.logger.Debug().Int64("product_id", productID).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to lock product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (created_by, product_id, quantity, order_date, total_cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		order.CreatedBy, order.Product.ID, order.Quantity, order.OrderDate.Time, order.TotalCost,
	).Scan(&order.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("product_id", order.Product.ID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// List retrieves all orders with their products.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT o.id, o.created_by, o.quantity, o.order_date, o.total_cost,
		       p.id, p.name, p.price, p.quantity, p.category, p.created_by
		FROM orders o
		JOIN products p ON p.id = o.product_id
		ORDER BY o.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var (
			o         model.Order
			orderDate time.Time
		)
		err := rows.Scan(
			&o.ID, &o.CreatedBy, &o.Quantity, &orderDate, &o.TotalCost,
			&o.Product.ID, &o.Product.Name, &o.Product.Price, &o.Product.Quantity, &o.Product.Category, &o.Product.CreatedBy,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.OrderDate = model.DateOf(orderDate)
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// Delete removes an order.
func (r *orderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Statistics counts orders per order date, keyed yyyy-MM-dd.
func (r *orderRepository) Statistics(ctx context.Context) (model.OrderStatistics, error) {
	query := `
		SELECT order_date, COUNT(*)
		FROM orders
		GROUP BY order_date
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order statistics")
		return nil, fmt.Errorf("failed to query order statistics: %w", err)
	}
	defer rows.Close()

	stats := model.OrderStatistics{}
	for rows.Next() {
		var (
			day   time.Time
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan statistics row")
			return nil, fmt.Errorf("failed to scan order statistics: %w", err)
		}
		stats[model.DateOf(day).ISO()] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating statistics rows")
		return nil, fmt.Errorf("error iterating order statistics: %w", err)
	}

	return stats, nil
}
