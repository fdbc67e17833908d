package service

import (
	"errors"
	"fmt"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterService manages cashier drawer sessions. A cashier has at most one
// open session; cash invoices created while it is open count toward the
// drawer's expected balance.
type RegisterService interface {
	Open(cashier Actor, openingFloat decimal.Decimal, note string) (*model.RegisterSession, error)
	Close(cashier Actor, countedCash decimal.Decimal, note string) (*model.RegisterSession, error)
	Current(cashier Actor) (*model.RegisterSession, error)
	ListSessions() ([]model.RegisterSession, error)
}

type registerService struct {
	store repository.Store
}

func NewRegisterService(store repository.Store) RegisterService {
	return &registerService{store: store}
}

func (s *registerService) Open(cashier Actor, openingFloat decimal.Decimal, note string) (*model.RegisterSession, error) {
	if openingFloat.IsNegative() {
		return nil, errors.New("opening float cannot be negative")
	}

	var session *model.RegisterSession
	err := s.store.Atomic(func(tx repository.Store) error {
		if _, err := tx.Sessions().FindOpenByCashier(cashier.ID); err == nil {
			return model.ErrSessionAlreadyOpen
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		session = &model.RegisterSession{
			CashierID:    cashier.ID,
			OpenedAt:     time.Now(),
			OpeningFloat: openingFloat,
			ExpectedCash: openingFloat,
			Status:       model.SessionOpen,
			Note:         note,
		}
		session.CreatedBy = cashier.ID.String()
		session.UpdatedBy = cashier.ID.String()
		return tx.Sessions().Create(session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *registerService) Close(cashier Actor, countedCash decimal.Decimal, note string) (*model.RegisterSession, error) {
	var session *model.RegisterSession
	err := s.store.Atomic(func(tx repository.Store) error {
		var err error
		session, err = tx.Sessions().FindOpenByCashierForUpdate(cashier.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrNoOpenSession
			}
			return err
		}

		cashSales, err := tx.Invoices().CashTotalForSession(session.ID)
		if err != nil {
			return fmt.Errorf("summing session cash sales: %w", err)
		}

		now := time.Now()
		session.ClosedAt = &now
		session.ExpectedCash = session.OpeningFloat.Add(cashSales)
		session.CountedCash = countedCash
		session.Difference = countedCash.Sub(session.ExpectedCash)
		session.Status = model.SessionClosed
		if note != "" {
			session.Note = note
		}
		session.UpdatedBy = cashier.ID.String()
		return tx.Sessions().Update(session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *registerService) Current(cashier Actor) (*model.RegisterSession, error) {
	session, err := s.store.Sessions().FindOpenByCashier(cashier.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNoOpenSession
		}
		return nil, err
	}
	return session, nil
}

func (s *registerService) ListSessions() ([]model.RegisterSession, error) {
	return s.store.Sessions().FindAll()
}
