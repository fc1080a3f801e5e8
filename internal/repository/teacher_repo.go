package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
)

// TeacherRepository provides access to teacher records.
type TeacherRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Teacher, error)
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (models.Teacher, error)
	GetActiveByEmail(ctx context.Context, email string) (models.Teacher, error)
	GetByUserID(ctx context.Context, userID uint) (models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id uint) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) List(ctx context.Context, activeOnly bool) ([]models.Teacher, error) {
	query := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var teachers []models.Teacher
	if err := query.Find(&teachers).Error; err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) GetByEmail(ctx context.Context, email string) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) GetActiveByEmail(ctx context.Context, email string) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Save(teacher).Error
}

func (r *teacherRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Teacher{}, id).Error
}
