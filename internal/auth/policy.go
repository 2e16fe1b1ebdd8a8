package auth

import "store-manager/internal/model"

// Operation names an API action subject to authorization.
type Operation string

const (
	OpRegister        Operation = "register"
	OpLogin           Operation = "login"
	OpListProducts    Operation = "products.list"
	OpCreateProduct   Operation = "products.create"
	OpUpdateProduct   Operation = "products.update"
	OpDeleteProduct   Operation = "products.delete"
	OpListOrders      Operation = "orders.list"
	OpCreateOrder     Operation = "orders.create"
	OpDeleteOrder     Operation = "orders.delete"
	OpOrderStatistics Operation = "orders.statistics"
)

// Rule describes who may perform an operation.
type Rule struct {
	Public bool
	Roles  []model.Role
}

// Policy maps each operation to its rule. Operations absent from the table are denied.
type Policy map[Operation]Rule

var (
	staff      = []model.Role{model.RoleAdmin, model.RoleManager}
	everyone   = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleCustomer}
	publicRule = Rule{Public: true}
)

// DefaultPolicy is the store's permission table.
var DefaultPolicy = Policy{
	OpRegister:        publicRule,
	OpLogin:           publicRule,
	OpListProducts:    {Roles: everyone},
	OpCreateProduct:   {Roles: staff},
	OpUpdateProduct:   {Roles: staff},
	OpDeleteProduct:   {Roles: staff},
	OpListOrders:      {Roles: staff},
	OpCreateOrder:     {Roles: everyone},
	OpDeleteOrder:     {Roles: staff},
	OpOrderStatistics: {Roles: staff},
}

// IsPublic reports whether op may be performed without authentication.
func (p Policy) IsPublic(op Operation) bool {
	rule, ok := p[op]
	return ok && rule.Public
}

// Allowed reports whether a caller holding roles may perform op.
func (p Policy) Allowed(op Operation, roles []model.Role) bool {
	rule, ok := p[op]
	if !ok {
		return false
	}
	if rule.Public {
		return true
	}
	for _, required := range rule.Roles {
		for _, held := range roles {
			if held == required {
				return true
			}
		}
	}
	return false
}
