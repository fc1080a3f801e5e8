package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
)

// ShiftCount pairs a shift with the number of attendance events recorded on it.
type ShiftCount struct {
	ShiftID uint
	Count   int64
}

// DayCount pairs a calendar date with the number of attendance events recorded on it.
type DayCount struct {
	Date  datatypes.Date
	Count int64
}

// TeacherAttendanceRepository provides access to the teacher attendance ledger.
type TeacherAttendanceRepository interface {
	Create(ctx context.Context, record *models.TeacherAttendance) error
	GetByID(ctx context.Context, id uint) (models.TeacherAttendance, error)
	Delete(ctx context.Context, id uint) error
	SetSheetRow(ctx context.Context, id uint, row int64) error
	Exists(ctx context.Context, teacherID uint, date datatypes.Date, shiftID uint) (bool, error)
	ListByDate(ctx context.Context, date datatypes.Date) ([]models.TeacherAttendance, error)
	ListByTeacherRange(ctx context.Context, teacherID uint, from, to time.Time) ([]models.TeacherAttendance, error)
	CountByShiftForRange(ctx context.Context, teacherID uint, from, to time.Time) ([]ShiftCount, error)
	ListTeachersOnShifts(ctx context.Context, date datatypes.Date, shiftIDs []uint) ([]models.Teacher, error)
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
}

type teacherAttendanceRepository struct {
	db *gorm.DB
}

// NewTeacherAttendanceRepository constructs the teacher attendance repository.
func NewTeacherAttendanceRepository(db *gorm.DB) TeacherAttendanceRepository {
	return &teacherAttendanceRepository{db: db}
}

func (r *teacherAttendanceRepository) Create(ctx context.Context, record *models.TeacherAttendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *teacherAttendanceRepository) GetByID(ctx context.Context, id uint) (models.TeacherAttendance, error) {
	var record models.TeacherAttendance
	if err := r.db.WithContext(ctx).Preload("Teacher").Preload("Shift").First(&record, id).Error; err != nil {
		return models.TeacherAttendance{}, err
	}

	return record, nil
}

func (r *teacherAttendanceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TeacherAttendance{}, id).Error
}

func (r *teacherAttendanceRepository) SetSheetRow(ctx context.Context, id uint, row int64) error {
	return r.db.WithContext(ctx).
		Model(&models.TeacherAttendance{}).
		Where("id = ?", id).
		Update("sheet_row", row).Error
}

func (r *teacherAttendanceRepository) Exists(ctx context.Context, teacherID uint, date datatypes.Date, shiftID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TeacherAttendance{}).
		Where("teacher_id = ? AND date = ? AND shift_id = ?", teacherID, date, shiftID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *teacherAttendanceRepository) ListByDate(ctx context.Context, date datatypes.Date) ([]models.TeacherAttendance, error) {
	var records []models.TeacherAttendance
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Shift").
		Where("date = ?", date).
		Order("wall_time").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *teacherAttendanceRepository) ListByTeacherRange(ctx context.Context, teacherID uint, from, to time.Time) ([]models.TeacherAttendance, error) {
	var records []models.TeacherAttendance
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("teacher_id = ? AND date >= ? AND date < ?", teacherID, models.DateOf(from), models.DateOf(to)).
		Order("date, wall_time").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *teacherAttendanceRepository) CountByShiftForRange(ctx context.Context, teacherID uint, from, to time.Time) ([]ShiftCount, error) {
	var counts []ShiftCount
	err := r.db.WithContext(ctx).
		Model(&models.TeacherAttendance{}).
		Select("shift_id, COUNT(*) AS count").
		Where("teacher_id = ? AND date >= ? AND date < ?", teacherID, models.DateOf(from), models.DateOf(to)).
		Group("shift_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *teacherAttendanceRepository) ListTeachersOnShifts(ctx context.Context, date datatypes.Date, shiftIDs []uint) ([]models.Teacher, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}

	var teachers []models.Teacher
	err := r.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Distinct("teachers.*").
		Joins("JOIN teacher_attendances ON teacher_attendances.teacher_id = teachers.id").
		Where("teacher_attendances.date = ? AND teacher_attendances.shift_id IN ?", date, shiftIDs).
		Find(&teachers).Error
	if err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *teacherAttendanceRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TeacherAttendance{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// StudentAttendanceRepository provides access to the student attendance ledger.
type StudentAttendanceRepository interface {
	Create(ctx context.Context, record *models.StudentAttendance) error
	GetByID(ctx context.Context, id uint) (models.StudentAttendance, error)
	Delete(ctx context.Context, id uint) error
	SetSheetRow(ctx context.Context, id uint, row int64) error
	Exists(ctx context.Context, studentID uint, date datatypes.Date) (bool, error)
	ListByDate(ctx context.Context, date datatypes.Date) ([]models.StudentAttendance, error)
	ListByStudentRange(ctx context.Context, studentID uint, from, to time.Time) ([]models.StudentAttendance, error)
	CountByDate(ctx context.Context, date datatypes.Date) (int64, error)
	CountByDayForRange(ctx context.Context, from, to time.Time) ([]DayCount, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
}

type studentAttendanceRepository struct {
	db *gorm.DB
}

// NewStudentAttendanceRepository constructs the student attendance repository.
func NewStudentAttendanceRepository(db *gorm.DB) StudentAttendanceRepository {
	return &studentAttendanceRepository{db: db}
}

func (r *studentAttendanceRepository) Create(ctx context.Context, record *models.StudentAttendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *studentAttendanceRepository) GetByID(ctx context.Context, id uint) (models.StudentAttendance, error) {
	var record models.StudentAttendance
	if err := r.db.WithContext(ctx).Preload("Student").First(&record, id).Error; err != nil {
		return models.StudentAttendance{}, err
	}

	return record, nil
}

func (r *studentAttendanceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.StudentAttendance{}, id).Error
}

func (r *studentAttendanceRepository) SetSheetRow(ctx context.Context, id uint, row int64) error {
	return r.db.WithContext(ctx).
		Model(&models.StudentAttendance{}).
		Where("id = ?", id).
		Update("sheet_row", row).Error
}

func (r *studentAttendanceRepository) Exists(ctx context.Context, studentID uint, date datatypes.Date) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentAttendance{}).
		Where("student_id = ? AND date = ?", studentID, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *studentAttendanceRepository) ListByDate(ctx context.Context, date datatypes.Date) ([]models.StudentAttendance, error) {
	var records []models.StudentAttendance
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("date = ?", date).
		Order("wall_time").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *studentAttendanceRepository) ListByStudentRange(ctx context.Context, studentID uint, from, to time.Time) ([]models.StudentAttendance, error) {
	var records []models.StudentAttendance
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND date >= ? AND date < ?", studentID, models.DateOf(from), models.DateOf(to)).
		Order("date").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *studentAttendanceRepository) CountByDate(ctx context.Context, date datatypes.Date) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentAttendance{}).
		Where("date = ?", date).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *studentAttendanceRepository) CountByDayForRange(ctx context.Context, from, to time.Time) ([]DayCount, error) {
	var counts []DayCount
	err := r.db.WithContext(ctx).
		Model(&models.StudentAttendance{}).
		Select("date, COUNT(*) AS count").
		Where("date >= ? AND date < ?", models.DateOf(from), models.DateOf(to)).
		Group("date").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *studentAttendanceRepository) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentAttendance{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
