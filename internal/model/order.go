package model

import "github.com/shopspring/decimal"

// Order represents a customer order for a single product.
type Order struct {
	ID        int64           `json:"id"`
	CreatedBy int64           `json:"createdBy"`
	Product   Product         `json:"product"`
	Quantity  int             `json:"quantity"`
	OrderDate Date            `json:"orderDate"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// OrderRequest represents the request payload for creating an order.
// OrderDate is expected in yyyy-MM-dd form.
type OrderRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	OrderDate string `json:"orderDate"`
}

// OrderStatistics maps an order date (yyyy-MM-dd) to the number of orders placed on it.
type OrderStatistics map[string]int

// TotalCost returns price multiplied by quantity.
func TotalCost(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
