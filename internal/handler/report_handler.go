package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/clock"
	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

// ReportHandler exposes the monthly reporting and dashboard endpoints.
type ReportHandler struct {
	reports   service.ReportService
	dashboard service.DashboardService
	clock     clock.Clock
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports service.ReportService, dashboard service.DashboardService, clk clock.Clock) *ReportHandler {
	return &ReportHandler{reports: reports, dashboard: dashboard, clock: clk}
}

// TeacherMonthly returns a teacher's shift counts, hours and day breakdown.
func (h *ReportHandler) TeacherMonthly(c *fiber.Ctx) error {
	teacherID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	year, month, err := parseMonthQuery(c, h.clock.Now())
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reports.MonthlyTeacherReport(c.Context(), teacherID, year, month)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teacher monthly report", report)
}

// StudentMonthly returns a student's presence days and attendance rate.
func (h *ReportHandler) StudentMonthly(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	year, month, err := parseMonthQuery(c, h.clock.Now())
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reports.MonthlyStudentAttendance(c.Context(), studentID, year, month)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student monthly report", report)
}

// MonthlyOverview returns the center-wide monthly rollup.
func (h *ReportHandler) MonthlyOverview(c *fiber.Ctx) error {
	year, month, err := parseMonthQuery(c, h.clock.Now())
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	overview, err := h.reports.MonthlyOverview(c.Context(), year, month)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "monthly overview", overview)
}

// Dashboard returns the live "who is here now" snapshot.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	response, err := h.dashboard.Overview(c.Context())
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "dashboard", response)
}
