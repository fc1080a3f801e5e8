package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
)

// defaultShifts is the reference shift table seeded on first start. The three
// one-on-one variants share the evening window and differ only in billed hours.
var defaultShifts = []models.Shift{
	{Code: models.ShiftMorning, Name: "Morning", StartTime: "06:00", EndTime: "12:00", Hours: 6, Category: models.ShiftCategorySingle, Active: true},
	{Code: models.ShiftAfternoon, Name: "Afternoon", StartTime: "12:00", EndTime: "16:45", Hours: 4.75, Category: models.ShiftCategorySingle, Active: true},
	{Code: models.ShiftOneOnOne1H, Name: "One-on-one (1h)", StartTime: "16:45", EndTime: "21:00", Hours: 1, Category: models.ShiftCategoryOneOnOne, Active: true},
	{Code: models.ShiftOneOnOne15, Name: "One-on-one (1.5h)", StartTime: "16:45", EndTime: "21:00", Hours: 1.5, Category: models.ShiftCategoryOneOnOne, Active: true},
	{Code: models.ShiftOneOnOne2H, Name: "One-on-one (2h)", StartTime: "16:45", EndTime: "21:00", Hours: 2, Category: models.ShiftCategoryOneOnOne, Active: true},
}

// BootstrapConfig carries the seed data applied at startup.
type BootstrapConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	StudentNames  []string
}

// BootstrapService runs the idempotent startup seeding: the shift reference
// table, the initial admin account, and an optional preset student roster.
// Seeding happens once at startup, never inside request handling.
type BootstrapService interface {
	Run(ctx context.Context) error
}

type bootstrapService struct {
	shifts   repository.ShiftRepository
	users    repository.UserRepository
	students repository.StudentRepository
	cfg      BootstrapConfig
	logger   zerolog.Logger
}

// NewBootstrapService constructs the bootstrap service.
func NewBootstrapService(
	shifts repository.ShiftRepository,
	users repository.UserRepository,
	students repository.StudentRepository,
	cfg BootstrapConfig,
	logger zerolog.Logger,
) BootstrapService {
	return &bootstrapService{
		shifts:   shifts,
		users:    users,
		students: students,
		cfg:      cfg,
		logger:   logger.With().Str("component", "bootstrap_service").Logger(),
	}
}

func (s *bootstrapService) Run(ctx context.Context) error {
	if err := s.ensureShifts(ctx); err != nil {
		return err
	}

	if err := s.ensureAdmin(ctx); err != nil {
		return err
	}

	return s.ensureStudents(ctx)
}

func (s *bootstrapService) ensureShifts(ctx context.Context) error {
	for _, shift := range defaultShifts {
		_, err := s.shifts.GetByCode(ctx, shift.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		create := shift
		if err := s.shifts.Create(ctx, &create); err != nil {
			return err
		}

		s.logger.Info().Str("shift", create.Code).Msg("default shift created")
	}

	return nil
}

func (s *bootstrapService) ensureAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil
	}

	// The seed only provides the initial admin; once any admin account exists
	// the configured credentials are ignored.
	if exists, err := s.users.AdminExists(ctx); err != nil {
		return err
	} else if exists {
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, s.cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	name := s.cfg.AdminName
	if name == "" {
		name = "Administrator"
	}

	admin := models.User{Name: name, Email: s.cfg.AdminEmail, IsAdmin: true}
	if err := admin.SetPassword(s.cfg.AdminPassword); err != nil {
		return err
	}

	if err := s.users.Create(ctx, &admin); err != nil {
		return err
	}

	s.logger.Info().Str("email", admin.Email).Msg("admin account created")
	return nil
}

func (s *bootstrapService) ensureStudents(ctx context.Context) error {
	if len(s.cfg.StudentNames) == 0 {
		return nil
	}

	count, err := s.students.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, name := range s.cfg.StudentNames {
		student := models.Student{Name: name, Active: true}
		if err := s.students.Create(ctx, &student); err != nil {
			return err
		}
	}

	s.logger.Info().Int("count", len(s.cfg.StudentNames)).Msg("preset students created")
	return nil
}
