package service

import (
	"context"
	"fmt"
	"strings"

	"store-manager/internal/model"
	"store-manager/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves all products.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")
	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and stores a new product.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest, ownerID int64) (*model.Product, error) {
	product, err := validateProductRequest(req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("invalid product")
		return nil, err
	}
	product.CreatedBy = ownerID

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Int64("created_by", ownerID).
		Msg("product created")

	return product, nil
}

// Update overwrites an existing product.
func (s *productService) Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	product, err := validateProductRequest(req)
	if err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("invalid product")
		return nil, err
	}
	product.ID = id

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if updated == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return updated, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		if model.KindOf(err) == model.KindConflict {
			return err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if !deleted {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// validateProductRequest checks a create or update payload and returns the product it describes.
func validateProductRequest(req *model.ProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.NewValidationError(model.ErrCodeMissingField, "request body is required")
	}

	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)

	switch {
	case name == "":
		return nil, model.NewValidationError(model.ErrCodeMissingField, "name is required")
	case category == "":
		return nil, model.NewValidationError(model.ErrCodeMissingField, "category is required")
	case req.Price == nil || !model.ValidAmount(*req.Price, model.MaxPrice):
		return nil, model.ErrInvalidPrice
	case req.Quantity < 0:
		return nil, model.ErrInvalidStock
	case req.Quantity > model.MaxQuantity:
		return nil, model.ErrStockTooLarge
	}

	return &model.Product{
		Name:     name,
		Price:    *req.Price,
		Quantity: req.Quantity,
		Category: category,
	}, nil
}
