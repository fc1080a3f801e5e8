package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/handler"
	"github.com/noah-isme/lhp-attendance-api/internal/middleware"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/observability"
)

// Dependencies carries everything the router needs to register routes.
type Dependencies struct {
	Auth       *handler.AuthHandler
	Attendance *handler.AttendanceHandler
	Reports    *handler.ReportHandler
	Teachers   *handler.TeacherHandler
	Students   *handler.StudentHandler
	Shifts     *handler.ShiftHandler
	Health     *handler.HealthHandler

	JWTSecret          string
	LoginRateLimit     int
	LoginRateLimitSpan time.Duration
}

// Register wires all API routes onto the app.
func Register(app *fiber.App, deps Dependencies) {
	app.Get("/health", deps.Health.Check)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login",
		middleware.RateLimit("login", deps.LoginRateLimit, deps.LoginRateLimitSpan),
		deps.Auth.Login,
	)

	protected := api.Group("", middleware.JWTProtected(deps.JWTSecret))

	anyRole := middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	attendance := protected.Group("/attendance")
	attendance.Post("/clock-in", anyRole, deps.Attendance.ClockIn)
	attendance.Get("/today", anyRole, deps.Attendance.Today)
	attendance.Get("/open-shifts", anyRole, deps.Attendance.OpenShifts)
	attendance.Post("/students/:id", anyRole, deps.Attendance.MarkStudent)
	attendance.Get("/records/today", adminOnly, deps.Attendance.TodayRecords)
	attendance.Delete("/teachers/:id", adminOnly, deps.Attendance.DeleteTeacherRecord)
	attendance.Delete("/students/:id", adminOnly, deps.Attendance.DeleteStudentRecord)

	protected.Get("/shifts", anyRole, deps.Shifts.List)

	teachers := protected.Group("/teachers", adminOnly)
	teachers.Get("/", deps.Teachers.List)
	teachers.Post("/", deps.Teachers.Create)
	teachers.Put("/:id", deps.Teachers.Update)
	teachers.Delete("/:id", deps.Teachers.Delete)

	students := protected.Group("/students")
	students.Get("/", anyRole, deps.Students.List)
	students.Post("/", adminOnly, deps.Students.Create)
	students.Put("/:id", adminOnly, deps.Students.Update)
	students.Delete("/:id", adminOnly, deps.Students.Delete)

	reports := protected.Group("/reports", adminOnly)
	reports.Get("/overview", deps.Reports.MonthlyOverview)
	reports.Get("/teachers/:id", deps.Reports.TeacherMonthly)
	reports.Get("/students/:id", deps.Reports.StudentMonthly)

	protected.Get("/dashboard", adminOnly, deps.Reports.Dashboard)
}
