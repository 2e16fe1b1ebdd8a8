package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity an INTEGER column holds.
const MaxQuantity = math.MaxInt32

// Exclusive upper bounds of the NUMERIC(12,2) price and NUMERIC(14,2) total columns.
var (
	MaxPrice      = decimal.New(1, 10)
	MaxOrderTotal = decimal.New(1, 12)
)

// ValidAmount reports whether d is a non-negative amount below limit with at
// most two decimal places.
func ValidAmount(d, limit decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(limit) && d.Equal(d.Truncate(2))
}

func init() {
	// Money is emitted as a JSON number, e.g. 29.97 rather than "29.97".
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents an inventory item.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category"`
	CreatedBy int64           `json:"createdBy"`
}

// ProductRequest represents the request payload for creating or updating a product.
// Price is a pointer so that a missing price can be told apart from zero.
type ProductRequest struct {
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int              `json:"quantity"`
	Category string           `json:"category"`
}
