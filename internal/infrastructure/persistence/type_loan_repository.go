package persistence

import (
	"context"
	"errors"

	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTypeLoanRepository implements loan.TypeRepository using GORM
type GormTypeLoanRepository struct {
	db *gorm.DB
}

// NewGormTypeLoanRepository creates a new GormTypeLoanRepository
func NewGormTypeLoanRepository(db *gorm.DB) *GormTypeLoanRepository {
	return &GormTypeLoanRepository{db: db}
}

// FindByID finds a loan type by its ID
func (r *GormTypeLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.TypeLoan, error) {
	var t loan.TypeLoan
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTypeLoanNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByName finds a loan type by its name
func (r *GormTypeLoanRepository) FindByName(ctx context.Context, name string) (*loan.TypeLoan, error) {
	var t loan.TypeLoan
	if err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTypeLoanNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Ensure GormTypeLoanRepository implements loan.TypeRepository
var _ loan.TypeRepository = (*GormTypeLoanRepository)(nil)
