package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
)

// ShiftRepository provides access to the shift reference table.
type ShiftRepository interface {
	List(ctx context.Context) ([]models.Shift, error)
	ListActive(ctx context.Context) ([]models.Shift, error)
	GetByCode(ctx context.Context, code string) (models.Shift, error)
	Create(ctx context.Context, shift *models.Shift) error
	Update(ctx context.Context, shift *models.Shift) error
}

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository constructs a shift repository.
func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) List(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := r.db.WithContext(ctx).Order("start_time, hours").Find(&shifts).Error; err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *shiftRepository) ListActive(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("start_time, hours").Find(&shifts).Error; err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *shiftRepository) GetByCode(ctx context.Context, code string) (models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&shift).Error; err != nil {
		return models.Shift{}, err
	}

	return shift, nil
}

func (r *shiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepository) Update(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}
