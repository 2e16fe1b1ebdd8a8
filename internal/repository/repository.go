package repository

import (
	"context"

	"store-manager/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// ExistsByUsername reports whether an account with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Create inserts the user and its roles in one transaction and sets user.ID.
	// Returns model.ErrUsernameTaken if the username is already registered.
	Create(ctx context.Context, user *model.User) error

	// FindByUsername retrieves a user with its roles. Returns nil if not found.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves all products in id order.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create inserts a new product and sets product.ID.
	Create(ctx context.Context, product *model.Product) error

	// Update overwrites the mutable fields of a product. Returns nil if not found.
	Update(ctx context.Context, product *model.Product) (*model.Product, error)

	// Delete removes a product. Returns false if it did not exist, and
	// model.ErrProductInUse if orders still reference it.
	Delete(ctx context.Context, id int64) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetProductForShare reads a product inside tx and locks it against
	// concurrent updates until the transaction ends. Returns nil if not found.
	GetProductForShare(ctx context.Context, tx pgx.Tx, productID int64) (*model.Product, error)

	// Create inserts a new order within the provided transaction and sets order.ID.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// List retrieves all orders with their products in id order.
	List(ctx context.Context) ([]model.Order, error)

	// Delete removes an order. Returns false if it did not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// Statistics counts orders per order date.
	Statistics(ctx context.Context) (model.OrderStatistics, error)
}
