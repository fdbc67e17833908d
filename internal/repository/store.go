package repository

import "gorm.io/gorm"

// Store bundles the repositories that participate in ledger transactions.
// Atomic runs fn against a transaction-scoped Store: every write inside fn
// commits together or not at all. The ledger's movement-plus-cached-balance
// pair and the whole of checkout each run inside one Atomic call.
type Store interface {
	Products() ProductRepository
	Movements() MovementRepository
	Invoices() InvoiceRepository
	Sessions() SessionRepository
	Atomic(fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Products() ProductRepository {
	return NewProductRepo(s.db)
}

func (s *gormStore) Movements() MovementRepository {
	return NewMovementRepo(s.db)
}

func (s *gormStore) Invoices() InvoiceRepository {
	return NewInvoiceRepo(s.db)
}

func (s *gormStore) Sessions() SessionRepository {
	return NewSessionRepo(s.db)
}

func (s *gormStore) Atomic(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
