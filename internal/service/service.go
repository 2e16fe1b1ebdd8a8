package service

import (
	"context"

	"store-manager/internal/model"
)

// AuthService defines account registration, login and token authentication.
type AuthService interface {
	// Register creates a new account with a hashed password and fixed roles.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, req *model.LoginRequest) (string, error)

	// Authenticate resolves a bearer token to the account it was issued for.
	Authenticate(ctx context.Context, token string) (*model.User, error)

	// EnsureUser registers the account unless one with the same username
	// already exists. The boolean reports whether a new account was created.
	EnsureUser(ctx context.Context, req *model.RegisterRequest) (*model.User, bool, error)
}

// ProductService defines operations for inventory management.
type ProductService interface {
	// List retrieves all products.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create validates and stores a new product owned by ownerID.
	Create(ctx context.Context, req *model.ProductRequest, ownerID int64) (*model.Product, error)

	// Update overwrites name, price, quantity and category of an existing product.
	Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create places an order, fixing its total cost from the product's current price.
	Create(ctx context.Context, req *model.OrderRequest, ownerID int64) (*model.Order, error)

	// List retrieves all orders with their products.
	List(ctx context.Context) ([]model.Order, error)

	// Delete removes an order.
	Delete(ctx context.Context, id int64) error

	// Statistics counts orders per order date.
	Statistics(ctx context.Context) (model.OrderStatistics, error)
}
