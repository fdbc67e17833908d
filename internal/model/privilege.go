package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// DefaultPrivileges are seeded on startup.
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Stock ledger
	{Code: "movement:view", Name: "View Stock Movement"},
	{Code: "movement:create", Name: "Record Stock Movement"},
	{Code: "movement:delete", Name: "Delete Stock Movement"},
	// Point of sale
	{Code: "checkout:create", Name: "Perform Checkout"},
	{Code: "invoice:view", Name: "View Invoice"},
	{Code: "invoice:void", Name: "Void Invoice"},
	// Register sessions
	{Code: "register:open", Name: "Open Register Session"},
	{Code: "register:close", Name: "Close Register Session"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}

// CashierPrivilegeCodes are the privileges granted to the CASHIER role.
var CashierPrivilegeCodes = []string{
	"product:view",
	"movement:view",
	"checkout:create",
	"invoice:view",
	"register:open",
	"register:close",
}
