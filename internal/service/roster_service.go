package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
)

// ErrEmailTaken indicates another teacher already uses the email.
var ErrEmailTaken = errors.New("email already in use")

// RosterService manages the teacher and student roster. Subjects with
// attendance history are never hard-deleted, only deactivated, so the
// ledger keeps its referential history.
type RosterService interface {
	ListTeachers(ctx context.Context, activeOnly bool) ([]dto.TeacherResponse, error)
	CreateTeacher(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error)
	UpdateTeacher(ctx context.Context, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error)
	DeleteTeacher(ctx context.Context, id uint) (bool, error)
	ListStudents(ctx context.Context, activeOnly bool) ([]dto.StudentResponse, error)
	CreateStudent(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id uint) (bool, error)
	ListShifts(ctx context.Context) ([]dto.ShiftResponse, error)
}

type rosterService struct {
	teachers      repository.TeacherRepository
	students      repository.StudentRepository
	users         repository.UserRepository
	shifts        repository.ShiftRepository
	teacherLedger repository.TeacherAttendanceRepository
	studentLedger repository.StudentAttendanceRepository
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(
	teachers repository.TeacherRepository,
	students repository.StudentRepository,
	users repository.UserRepository,
	shifts repository.ShiftRepository,
	teacherLedger repository.TeacherAttendanceRepository,
	studentLedger repository.StudentAttendanceRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) RosterService {
	return &rosterService{
		teachers:      teachers,
		students:      students,
		users:         users,
		shifts:        shifts,
		teacherLedger: teacherLedger,
		studentLedger: studentLedger,
		validator:     validate,
		logger:        logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) ListTeachers(ctx context.Context, activeOnly bool) ([]dto.TeacherResponse, error) {
	teachers, err := s.teachers.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	return dto.NewTeacherResponseSlice(teachers), nil
}

func (s *rosterService) CreateTeacher(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.teachers.GetByEmail(ctx, email); err == nil {
		return dto.TeacherResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TeacherResponse{}, err
	}

	teacher := models.Teacher{Name: payload.Name, Email: email, Active: true}
	if err := s.teachers.Create(ctx, &teacher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.TeacherResponse{}, ErrEmailTaken
		}

		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher created")

	return dto.NewTeacherResponse(teacher), nil
}

func (s *rosterService) UpdateTeacher(ctx context.Context, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}

		return dto.TeacherResponse{}, err
	}

	if payload.Name != nil {
		teacher.Name = *payload.Name
	}

	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		if email != teacher.Email {
			if existing, err := s.teachers.GetByEmail(ctx, email); err == nil && existing.ID != teacher.ID {
				return dto.TeacherResponse{}, ErrEmailTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TeacherResponse{}, err
			}

			teacher.Email = email
		}
	}

	if payload.Active != nil {
		teacher.Active = *payload.Active
	}

	if err := s.teachers.Update(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	// Keep the linked login account in sync with the roster entry.
	if teacher.UserID != nil {
		user, err := s.users.GetByID(ctx, *teacher.UserID)
		if err == nil {
			user.Name = teacher.Name
			user.Email = teacher.Email
			if err := s.users.Update(ctx, &user); err != nil {
				s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to sync linked account")
			}
		}
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher updated")

	return dto.NewTeacherResponse(teacher), nil
}

func (s *rosterService) DeleteTeacher(ctx context.Context, id uint) (bool, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrTeacherNotFound
		}

		return false, err
	}

	history, err := s.teacherLedger.CountByTeacher(ctx, teacher.ID)
	if err != nil {
		return false, err
	}

	if history > 0 {
		teacher.Active = false
		if err := s.teachers.Update(ctx, &teacher); err != nil {
			return false, err
		}

		s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher deactivated")
		return true, nil
	}

	if teacher.UserID != nil {
		if err := s.users.Delete(ctx, *teacher.UserID); err != nil {
			return false, err
		}
	}

	if err := s.teachers.Delete(ctx, teacher.ID); err != nil {
		return false, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher deleted")
	return false, nil
}

func (s *rosterService) ListStudents(ctx context.Context, activeOnly bool) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *rosterService) CreateStudent(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{Name: strings.TrimSpace(payload.Name), Active: true}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student created")

	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) UpdateStudent(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}

		return dto.StudentResponse{}, err
	}

	if payload.Name != nil {
		student.Name = strings.TrimSpace(*payload.Name)
	}

	if payload.Active != nil {
		student.Active = *payload.Active
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student updated")

	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) DeleteStudent(ctx context.Context, id uint) (bool, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrStudentNotFound
		}

		return false, err
	}

	history, err := s.studentLedger.CountByStudent(ctx, student.ID)
	if err != nil {
		return false, err
	}

	if history > 0 {
		student.Active = false
		if err := s.students.Update(ctx, &student); err != nil {
			return false, err
		}

		s.logger.Info().Uint("student_id", student.ID).Msg("student deactivated")
		return true, nil
	}

	if err := s.students.Delete(ctx, student.ID); err != nil {
		return false, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student deleted")
	return false, nil
}

func (s *rosterService) ListShifts(ctx context.Context) ([]dto.ShiftResponse, error) {
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewShiftResponseSlice(shifts), nil
}
