package service

import (
	"context"
	"fmt"
	"strings"

	"store-manager/internal/model"
	"store-manager/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Create places an order. The product is read and the order inserted in a
// single transaction so the stored total matches the price that was locked.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest, ownerID int64) (order *model.Order, err error) {
	orderDate, err := s.validateOrderRequest(req)
	if err != nil {
		return nil, err
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	product, err := s.orderRepo.GetProductForShare(ctx, tx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", req.ProductID).Msg("failed to load product")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if product == nil {
		s.logger.Warn().Int64("product_id", req.ProductID).Msg("order for unknown product")
		err = model.ErrProductNotFound
		return nil, err
	}

	total := model.TotalCost(product.Price, req.Quantity)
	if !total.LessThan(model.MaxOrderTotal) {
		s.logger.Warn().Int64("product_id", product.ID).Str("total_cost", total.String()).Msg("order total too large")
		err = model.ErrOrderTotalTooLarge
		return nil, err
	}

	order = &model.Order{
		CreatedBy: ownerID,
		Product:   *product,
		Quantity:  req.Quantity,
		OrderDate: orderDate,
		TotalCost: total,
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("product_id", product.ID).
		Int("quantity", order.Quantity).
		Str("total_cost", order.TotalCost.String()).
		Msg("order created successfully")

	return order, nil
}

// List retrieves all orders.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	s.logger.Debug().Int("count", len(orders)).Msg("retrieved orders")
	return orders, nil
}

// Delete removes an order.
func (s *orderService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if !deleted {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return model.ErrOrderNotFound
	}

	s.logger.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}

// Statistics counts orders per order date.
func (s *orderService) Statistics(ctx context.Context) (model.OrderStatistics, error) {
	stats, err := s.orderRepo.Statistics(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute order statistics")
		return nil, fmt.Errorf("failed to get order statistics: %w", err)
	}
	return stats, nil
}

// validateOrderRequest validates the order request and parses its date.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) (model.Date, error) {
	if req == nil {
		return model.Date{}, model.NewValidationError(model.ErrCodeMissingField, "request body is required")
	}

	if req.Quantity <= 0 {
		s.logger.Warn().
			Int64("product_id", req.ProductID).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return model.Date{}, model.ErrInvalidQuantity
	}

	if req.Quantity > model.MaxQuantity {
		return model.Date{}, model.ErrQuantityTooLarge
	}

	if strings.TrimSpace(req.OrderDate) == "" {
		return model.Date{}, model.ErrInvalidOrderDate
	}

	return model.ParseISODate(req.OrderDate)
}
