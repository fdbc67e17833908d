package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Caller-visible domain errors. Handlers match these with errors.Is and map
// them to HTTP status codes; nothing in the core retries on them.
var (
	ErrInsufficientStock   = errors.New("insufficient stock remaining")
	ErrInsufficientPayment = errors.New("cash received is below the amount due")
	ErrStockLimitExceeded  = errors.New("requested quantity exceeds available stock")
	ErrEmptyCart           = errors.New("cart has no items")

	ErrProductNotFound  = errors.New("product not found")
	ErrMovementNotFound = errors.New("stock movement not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")

	ErrInvoiceNotVoidable = errors.New("only paid invoices can be voided")
	ErrSessionAlreadyOpen = errors.New("cashier already has an open register session")
	ErrNoOpenSession      = errors.New("cashier has no open register session")
)

// ConsistencyError reports a cached product balance that disagrees with the
// recomputed ledger sum. It indicates corruption and is never auto-corrected.
type ConsistencyError struct {
	ProductID uuid.UUID
	Cached    int
	Computed  int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("ledger inconsistency for product %s: cached balance %d, ledger sum %d",
		e.ProductID, e.Cached, e.Computed)
}
