package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
)

// ReportService computes monthly rollups from the attendance ledger.
// Everything here is a pure read recomputed per call; nothing is cached.
type ReportService interface {
	MonthlyTeacherStats(ctx context.Context, teacherID uint, year int, month time.Month) (dto.TeacherMonthlyStats, error)
	MonthlyTeacherReport(ctx context.Context, teacherID uint, year int, month time.Month) (dto.TeacherMonthlyReport, error)
	MonthlyStudentAttendance(ctx context.Context, studentID uint, year int, month time.Month) (dto.StudentMonthlyAttendance, error)
	MonthlyOverview(ctx context.Context, year int, month time.Month) (dto.MonthlyOverview, error)
}

type reportService struct {
	teachers      repository.TeacherRepository
	students      repository.StudentRepository
	shifts        repository.ShiftRepository
	teacherLedger repository.TeacherAttendanceRepository
	studentLedger repository.StudentAttendanceRepository
	policy        ShiftPolicy
	logger        zerolog.Logger
}

// NewReportService constructs the reporting service.
func NewReportService(
	teachers repository.TeacherRepository,
	students repository.StudentRepository,
	shifts repository.ShiftRepository,
	teacherLedger repository.TeacherAttendanceRepository,
	studentLedger repository.StudentAttendanceRepository,
	policy ShiftPolicy,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		teachers:      teachers,
		students:      students,
		shifts:        shifts,
		teacherLedger: teacherLedger,
		studentLedger: studentLedger,
		policy:        policy,
		logger:        logger.With().Str("component", "report_service").Logger(),
	}
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// attendanceRate returns present/eligible, or 0 when there are no eligible
// days to divide by.
func attendanceRate(present int64, eligible int) float64 {
	if eligible <= 0 {
		return 0
	}

	return float64(present) / float64(eligible)
}

func (s *reportService) MonthlyTeacherStats(ctx context.Context, teacherID uint, year int, month time.Month) (dto.TeacherMonthlyStats, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherMonthlyStats{}, ErrTeacherNotFound
		}

		return dto.TeacherMonthlyStats{}, err
	}

	return s.statsFor(ctx, teacher, year, month)
}

func (s *reportService) statsFor(ctx context.Context, teacher models.Teacher, year int, month time.Month) (dto.TeacherMonthlyStats, error) {
	from, to := monthRange(year, month)

	counts, err := s.teacherLedger.CountByShiftForRange(ctx, teacher.ID, from, to)
	if err != nil {
		return dto.TeacherMonthlyStats{}, err
	}

	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return dto.TeacherMonthlyStats{}, err
	}

	shiftByID := make(map[uint]models.Shift, len(shifts))
	for _, shift := range shifts {
		shiftByID[shift.ID] = shift
	}

	stats := dto.TeacherMonthlyStats{
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		ShiftCounts: make(map[string]int64, len(counts)),
	}

	for _, count := range counts {
		shift, ok := shiftByID[count.ShiftID]
		if !ok {
			continue
		}

		stats.ShiftCounts[shift.Code] = count.Count
		stats.TotalShifts += count.Count
		stats.TotalHours += float64(count.Count) * s.policy.HoursFor(shift)
	}

	return stats, nil
}

func (s *reportService) MonthlyTeacherReport(ctx context.Context, teacherID uint, year int, month time.Month) (dto.TeacherMonthlyReport, error) {
	stats, err := s.MonthlyTeacherStats(ctx, teacherID, year, month)
	if err != nil {
		return dto.TeacherMonthlyReport{}, err
	}

	from, to := monthRange(year, month)
	records, err := s.teacherLedger.ListByTeacherRange(ctx, teacherID, from, to)
	if err != nil {
		return dto.TeacherMonthlyReport{}, err
	}

	days := make(map[string][]string)
	for _, record := range records {
		key := models.FormatDate(record.Date)
		days[key] = append(days[key], record.Shift.Code)
	}

	return dto.TeacherMonthlyReport{
		TeacherMonthlyStats: stats,
		Year:                year,
		Month:               int(month),
		Days:                days,
	}, nil
}

func (s *reportService) MonthlyStudentAttendance(ctx context.Context, studentID uint, year int, month time.Month) (dto.StudentMonthlyAttendance, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentMonthlyAttendance{}, ErrStudentNotFound
		}

		return dto.StudentMonthlyAttendance{}, err
	}

	from, to := monthRange(year, month)
	records, err := s.studentLedger.ListByStudentRange(ctx, studentID, from, to)
	if err != nil {
		return dto.StudentMonthlyAttendance{}, err
	}

	days := make(map[string]string, len(records))
	for _, record := range records {
		days[models.FormatDate(record.Date)] = record.WallTime
	}

	eligible := s.policy.EligibleDays(year, month)

	result := dto.StudentMonthlyAttendance{
		StudentID:    student.ID,
		StudentName:  student.Name,
		Year:         year,
		Month:        int(month),
		PresentDays:  int64(len(records)),
		EligibleDays: eligible,
		Rate:         attendanceRate(int64(len(records)), eligible),
		Days:         days,
	}

	return result, nil
}

func (s *reportService) MonthlyOverview(ctx context.Context, year int, month time.Month) (dto.MonthlyOverview, error) {
	teachers, err := s.teachers.List(ctx, true)
	if err != nil {
		return dto.MonthlyOverview{}, err
	}

	overview := dto.MonthlyOverview{
		Year:            year,
		Month:           int(month),
		TeacherStats:    make([]dto.TeacherMonthlyStats, 0, len(teachers)),
		StudentPresence: make(map[string]dto.DayPresence),
	}

	for _, teacher := range teachers {
		stats, err := s.statsFor(ctx, teacher, year, month)
		if err != nil {
			return dto.MonthlyOverview{}, err
		}

		overview.TeacherStats = append(overview.TeacherStats, stats)
	}

	sort.SliceStable(overview.TeacherStats, func(i, j int) bool {
		return overview.TeacherStats[i].TotalHours > overview.TeacherStats[j].TotalHours
	})

	totalStudents, err := s.students.CountActive(ctx)
	if err != nil {
		return dto.MonthlyOverview{}, err
	}
	overview.TotalStudents = totalStudents

	from, to := monthRange(year, month)
	dayCounts, err := s.studentLedger.CountByDayForRange(ctx, from, to)
	if err != nil {
		return dto.MonthlyOverview{}, err
	}

	countByDate := make(map[string]int64, len(dayCounts))
	for _, day := range dayCounts {
		countByDate[models.FormatDate(day.Date)] = day.Count
	}

	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == s.policy.RestDay() {
			continue
		}

		key := day.Format("2006-01-02")
		count := countByDate[key]
		presence := dto.DayPresence{Count: count}
		if totalStudents > 0 {
			presence.Percentage = int(math.Round(float64(count) / float64(totalStudents) * 100))
		}
		overview.StudentPresence[key] = presence
	}

	return overview, nil
}
