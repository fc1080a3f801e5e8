package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/noah-isme/lhp-attendance-api/internal/clock"
	"github.com/noah-isme/lhp-attendance-api/internal/config"
	"github.com/noah-isme/lhp-attendance-api/internal/database"
	"github.com/noah-isme/lhp-attendance-api/internal/handler"
	"github.com/noah-isme/lhp-attendance-api/internal/middleware"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
	"github.com/noah-isme/lhp-attendance-api/internal/router"
	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
	"github.com/noah-isme/lhp-attendance-api/pkg/sheets"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "lhp-attendance-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.AppEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	location, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve timezone")
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Student{},
		&models.Shift{},
		&models.TeacherAttendance{},
		&models.StudentAttendance{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	cache, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
		cache = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mirror, err := sheets.New(ctx, sheets.Config{
		CredentialsJSON: cfg.SheetsCredentials,
		SpreadsheetID:   cfg.SpreadsheetID,
		Worksheet:       cfg.WorksheetName,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize sheets mirror")
	}
	if err := mirror.EnsureWorksheet(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to prepare mirror worksheet")
	}

	validate := validator.New()
	clk := clock.NewZoneClock(location)
	policy := service.NewShiftPolicy(cfg.RestDay)

	users := repository.NewUserRepository(db)
	teachers := repository.NewTeacherRepository(db)
	students := repository.NewStudentRepository(db)
	shifts := repository.NewShiftRepository(db)
	teacherLedger := repository.NewTeacherAttendanceRepository(db)
	studentLedger := repository.NewStudentAttendanceRepository(db)

	bootstrap := service.NewBootstrapService(shifts, users, students, service.BootstrapConfig{
		AdminName:     cfg.AdminName,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		StudentNames:  cfg.SeedStudents,
	}, logger)
	if err := bootstrap.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed initial data")
	}

	auth := service.NewAuthService(users, teachers, validate, cfg.JWTSecret, cfg.TokenTTL, clk, logger)
	attendance := service.NewAttendanceService(
		teacherLedger, studentLedger, teachers, students, users, shifts,
		policy, mirror, cfg.MirrorTimeout, clk, logger,
	)
	roster := service.NewRosterService(teachers, students, users, shifts, teacherLedger, studentLedger, validate, logger)
	reports := service.NewReportService(teachers, students, shifts, teacherLedger, studentLedger, policy, logger)
	dashboard := service.NewDashboardService(teacherLedger, studentLedger, students, shifts, policy, clk, cache, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fiberErr, ok := err.(*fiber.Error); ok {
				code = fiberErr.Code
			}

			return utils.SendError(c, code, err.Error())
		},
	})

	middleware.Register(app, middleware.Config{Logger: &logger})

	router.Register(app, router.Dependencies{
		Auth:       handler.NewAuthHandler(auth),
		Attendance: handler.NewAttendanceHandler(attendance),
		Reports:    handler.NewReportHandler(reports, dashboard, clk),
		Teachers:   handler.NewTeacherHandler(roster),
		Students:   handler.NewStudentHandler(roster),
		Shifts:     handler.NewShiftHandler(roster),
		Health:     handler.NewHealthHandler(db, cache),

		JWTSecret:          cfg.JWTSecret,
		LoginRateLimit:     cfg.LoginRateLimit,
		LoginRateLimitSpan: cfg.LoginRateLimitSpan,
	})

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("forced shutdown")
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Msg("starting server")
	if err := app.Listen(cfg.HTTPAddress()); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}

	if cache != nil {
		_ = cache.Close()
	}
}
