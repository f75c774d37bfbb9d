package persistence

import (
	"context"
	"errors"

	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStateLoanRepository implements loan.StateRepository using GORM
type GormStateLoanRepository struct {
	db *gorm.DB
}

// NewGormStateLoanRepository creates a new GormStateLoanRepository
func NewGormStateLoanRepository(db *gorm.DB) *GormStateLoanRepository {
	return &GormStateLoanRepository{db: db}
}

// FindByID finds a loan state by its ID
func (r *GormStateLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.StateLoan, error) {
	var s loan.StateLoan
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrStateLoanNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByName finds a loan state by its name
func (r *GormStateLoanRepository) FindByName(ctx context.Context, name string) (*loan.StateLoan, error) {
	var s loan.StateLoan
	if err := r.db.WithContext(ctx).First(&s, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrStateLoanNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Ensure GormStateLoanRepository implements loan.StateRepository
var _ loan.StateRepository = (*GormStateLoanRepository)(nil)
