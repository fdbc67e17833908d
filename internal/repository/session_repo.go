package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	Create(session *model.RegisterSession) error
	FindByID(id uuid.UUID) (*model.RegisterSession, error)
	// FindOpenByCashier returns the cashier's open session, or
	// gorm.ErrRecordNotFound when the register is closed.
	FindOpenByCashier(cashierID uuid.UUID) (*model.RegisterSession, error)
	FindOpenByCashierForUpdate(cashierID uuid.UUID) (*model.RegisterSession, error)
	Update(session *model.RegisterSession) error
	FindAll() ([]model.RegisterSession, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db}
}

func (r *sessionRepo) Create(session *model.RegisterSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepo) FindByID(id uuid.UUID) (*model.RegisterSession, error) {
	var session model.RegisterSession
	err := r.db.Preload("Cashier").First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindOpenByCashier(cashierID uuid.UUID) (*model.RegisterSession, error) {
	var session model.RegisterSession
	err := r.db.Where("cashier_id = ? AND status = ?", cashierID, model.SessionOpen).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindOpenByCashierForUpdate(cashierID uuid.UUID) (*model.RegisterSession, error) {
	var session model.RegisterSession
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cashier_id = ? AND status = ?", cashierID, model.SessionOpen).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(session *model.RegisterSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepo) FindAll() ([]model.RegisterSession, error) {
	var sessions []model.RegisterSession
	err := r.db.Preload("Cashier").Order("opened_at DESC").Find(&sessions).Error
	return sessions, err
}
