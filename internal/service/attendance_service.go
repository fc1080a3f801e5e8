package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/clock"
	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/observability"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
	"github.com/noah-isme/lhp-attendance-api/pkg/sheets"
)

var (
	// ErrRestDay indicates attendance is closed on the weekly rest day.
	ErrRestDay = errors.New("attendance is closed on the rest day")
	// ErrShiftNotFound indicates the requested shift is unknown or inactive.
	ErrShiftNotFound = errors.New("shift not found")
	// ErrOutsideWindow indicates the current time is outside the shift window.
	ErrOutsideWindow = errors.New("current time is outside the shift window")
	// ErrDuplicateAttendance indicates attendance was already recorded for the tuple.
	ErrDuplicateAttendance = errors.New("attendance already recorded")
	// ErrTeacherNotFound indicates the requested teacher does not exist.
	ErrTeacherNotFound = errors.New("teacher not found")
	// ErrStudentNotFound indicates the requested student does not exist or is inactive.
	ErrStudentNotFound = errors.New("student not found")
	// ErrAttendanceNotFound indicates the requested attendance record does not exist.
	ErrAttendanceNotFound = errors.New("attendance record not found")
	// ErrNotLinkedTeacher indicates the account has no linked teacher profile.
	ErrNotLinkedTeacher = errors.New("account is not linked to a teacher")
)

const mirrorWarning = "attendance saved locally but the external ledger could not be updated"

// MirrorClient mirrors attendance events to an external row-oriented ledger.
// Implementations must tolerate total backend unavailability by returning
// no-op successes; every failure here is non-fatal to the caller.
type MirrorClient interface {
	Append(ctx context.Context, row sheets.Row) (int64, error)
	Delete(ctx context.Context, row int64) (bool, error)
}

// AttendanceService owns every write path into the attendance ledger.
type AttendanceService interface {
	ClockIn(ctx context.Context, userID uint, shiftCode string) (dto.TeacherAttendanceResponse, error)
	MarkStudentPresent(ctx context.Context, userID, studentID uint) (dto.StudentAttendanceResponse, error)
	DeleteTeacherAttendance(ctx context.Context, id uint) (string, error)
	DeleteStudentAttendance(ctx context.Context, id uint) (string, error)
	CurrentOpenShifts(ctx context.Context) ([]dto.ShiftResponse, error)
	TeacherToday(ctx context.Context, userID uint) (dto.TeacherTodayResponse, error)
	TodayRecords(ctx context.Context) (dto.TodayRecordsResponse, error)
}

type attendanceService struct {
	teacherLedger repository.TeacherAttendanceRepository
	studentLedger repository.StudentAttendanceRepository
	teachers      repository.TeacherRepository
	students      repository.StudentRepository
	users         repository.UserRepository
	shifts        repository.ShiftRepository
	policy        ShiftPolicy
	mirror        MirrorClient
	mirrorTimeout time.Duration
	clock         clock.Clock
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewAttendanceService wires the attendance orchestrator. The mirror client may
// be nil, in which case events are only persisted locally.
func NewAttendanceService(
	teacherLedger repository.TeacherAttendanceRepository,
	studentLedger repository.StudentAttendanceRepository,
	teachers repository.TeacherRepository,
	students repository.StudentRepository,
	users repository.UserRepository,
	shifts repository.ShiftRepository,
	policy ShiftPolicy,
	mirror MirrorClient,
	mirrorTimeout time.Duration,
	clk clock.Clock,
	logger zerolog.Logger,
) AttendanceService {
	if mirrorTimeout <= 0 {
		mirrorTimeout = 10 * time.Second
	}

	return &attendanceService{
		teacherLedger: teacherLedger,
		studentLedger: studentLedger,
		teachers:      teachers,
		students:      students,
		users:         users,
		shifts:        shifts,
		policy:        policy,
		mirror:        mirror,
		mirrorTimeout: mirrorTimeout,
		clock:         clk,
		logger:        logger.With().Str("component", "attendance_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/lhp-attendance-api/internal/service/attendance"),
	}
}

func (s *attendanceService) ClockIn(ctx context.Context, userID uint, shiftCode string) (dto.TeacherAttendanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.clock_in", trace.WithAttributes(
		attribute.Int("user.id", int(userID)),
		attribute.String("shift.code", shiftCode),
	))
	defer span.End()

	now := s.clock.Now()

	if s.policy.IsRestDay(now) {
		span.SetStatus(codes.Error, "rest day")
		return dto.TeacherAttendanceResponse{}, ErrRestDay
	}

	recorder, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return dto.TeacherAttendanceResponse{}, err
	}

	teacher, err := s.teachers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "account not linked")
			return dto.TeacherAttendanceResponse{}, ErrNotLinkedTeacher
		}

		span.RecordError(err)
		return dto.TeacherAttendanceResponse{}, err
	}

	shift, err := s.shifts.GetByCode(ctx, shiftCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "shift not found")
			return dto.TeacherAttendanceResponse{}, ErrShiftNotFound
		}

		span.RecordError(err)
		return dto.TeacherAttendanceResponse{}, err
	}

	if !shift.Active {
		span.SetStatus(codes.Error, "shift not found")
		return dto.TeacherAttendanceResponse{}, ErrShiftNotFound
	}

	if !s.policy.IsOpen(shift, now) {
		span.SetStatus(codes.Error, "outside shift window")
		return dto.TeacherAttendanceResponse{}, ErrOutsideWindow
	}

	date := models.DateOf(now)

	// Fast-fail only; the composite unique index is the authoritative guard
	// against two concurrent clock-ins for the same tuple.
	exists, err := s.teacherLedger.Exists(ctx, teacher.ID, date, shift.ID)
	if err != nil {
		span.RecordError(err)
		return dto.TeacherAttendanceResponse{}, err
	}
	if exists {
		span.SetStatus(codes.Error, "duplicate attendance")
		return dto.TeacherAttendanceResponse{}, ErrDuplicateAttendance
	}

	record := models.TeacherAttendance{
		TeacherID:  teacher.ID,
		Date:       date,
		ShiftID:    shift.ID,
		WallTime:   models.WallClock(now),
		RecordedBy: recorder.ID,
	}

	if err := s.teacherLedger.Create(ctx, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "duplicate attendance")
			return dto.TeacherAttendanceResponse{}, ErrDuplicateAttendance
		}

		span.RecordError(err)
		observability.AttendanceEvents().WithLabelValues("teacher", "error").Inc()
		return dto.TeacherAttendanceResponse{}, err
	}

	observability.AttendanceEvents().WithLabelValues("teacher", "recorded").Inc()
	s.logger.Info().
		Uint("teacher_id", teacher.ID).
		Str("shift", shift.Code).
		Str("date", models.FormatDate(date)).
		Msg("teacher clocked in")

	record.Teacher = teacher
	record.Shift = shift
	response := dto.NewTeacherAttendanceResponse(record)

	row := sheets.Row{
		Date:       models.FormatDate(date),
		Time:       record.WallTime,
		Name:       teacher.Name,
		Status:     sheets.StatusPresent,
		Shift:      shift.Name,
		RecordedBy: recorder.Name,
	}
	if ref, warning := s.mirrorAppend(ctx, row); warning != "" {
		response.MirrorWarning = warning
	} else if ref > 0 {
		if err := s.teacherLedger.SetSheetRow(ctx, record.ID, ref); err != nil {
			s.logger.Warn().Err(err).Uint("attendance_id", record.ID).Msg("failed to attach sheet row reference")
		} else {
			response.SheetRow = &ref
		}
	}

	return response, nil
}

func (s *attendanceService) MarkStudentPresent(ctx context.Context, userID, studentID uint) (dto.StudentAttendanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.mark_student", trace.WithAttributes(
		attribute.Int("user.id", int(userID)),
		attribute.Int("student.id", int(studentID)),
	))
	defer span.End()

	now := s.clock.Now()

	if s.policy.IsRestDay(now) {
		span.SetStatus(codes.Error, "rest day")
		return dto.StudentAttendanceResponse{}, ErrRestDay
	}

	recorder, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return dto.StudentAttendanceResponse{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "student not found")
			return dto.StudentAttendanceResponse{}, ErrStudentNotFound
		}

		span.RecordError(err)
		return dto.StudentAttendanceResponse{}, err
	}

	date := models.DateOf(now)

	exists, err := s.studentLedger.Exists(ctx, student.ID, date)
	if err != nil {
		span.RecordError(err)
		return dto.StudentAttendanceResponse{}, err
	}
	if exists {
		span.SetStatus(codes.Error, "duplicate attendance")
		return dto.StudentAttendanceResponse{}, ErrDuplicateAttendance
	}

	record := models.StudentAttendance{
		StudentID:  student.ID,
		Date:       date,
		WallTime:   models.WallClock(now),
		RecordedBy: recorder.ID,
	}

	if err := s.studentLedger.Create(ctx, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "duplicate attendance")
			return dto.StudentAttendanceResponse{}, ErrDuplicateAttendance
		}

		span.RecordError(err)
		observability.AttendanceEvents().WithLabelValues("student", "error").Inc()
		return dto.StudentAttendanceResponse{}, err
	}

	observability.AttendanceEvents().WithLabelValues("student", "recorded").Inc()
	s.logger.Info().
		Uint("student_id", student.ID).
		Str("date", models.FormatDate(date)).
		Msg("student marked present")

	record.Student = student
	response := dto.NewStudentAttendanceResponse(record)

	row := sheets.Row{
		Date:       models.FormatDate(date),
		Time:       record.WallTime,
		Name:       student.Name,
		Status:     sheets.StatusPresent,
		Shift:      sheets.ShiftStudent,
		RecordedBy: recorder.Name,
	}
	if ref, warning := s.mirrorAppend(ctx, row); warning != "" {
		response.MirrorWarning = warning
	} else if ref > 0 {
		if err := s.studentLedger.SetSheetRow(ctx, record.ID, ref); err != nil {
			s.logger.Warn().Err(err).Uint("attendance_id", record.ID).Msg("failed to attach sheet row reference")
		} else {
			response.SheetRow = &ref
		}
	}

	return response, nil
}

func (s *attendanceService) DeleteTeacherAttendance(ctx context.Context, id uint) (string, error) {
	record, err := s.teacherLedger.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAttendanceNotFound
		}

		return "", err
	}

	warning := s.mirrorDelete(ctx, record.SheetRow)

	// The local ledger is authoritative: delete unconditionally even when the
	// mirror call failed.
	if err := s.teacherLedger.Delete(ctx, id); err != nil {
		return "", err
	}

	observability.AttendanceEvents().WithLabelValues("teacher", "deleted").Inc()
	s.logger.Info().Uint("attendance_id", id).Msg("teacher attendance deleted")

	return warning, nil
}

func (s *attendanceService) DeleteStudentAttendance(ctx context.Context, id uint) (string, error) {
	record, err := s.studentLedger.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAttendanceNotFound
		}

		return "", err
	}

	warning := s.mirrorDelete(ctx, record.SheetRow)

	if err := s.studentLedger.Delete(ctx, id); err != nil {
		return "", err
	}

	observability.AttendanceEvents().WithLabelValues("student", "deleted").Inc()
	s.logger.Info().Uint("attendance_id", id).Msg("student attendance deleted")

	return warning, nil
}

func (s *attendanceService) CurrentOpenShifts(ctx context.Context) ([]dto.ShiftResponse, error) {
	shifts, err := s.shifts.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	open := s.policy.OpenShifts(shifts, s.clock.Now())
	return dto.NewShiftResponseSlice(open), nil
}

func (s *attendanceService) TeacherToday(ctx context.Context, userID uint) (dto.TeacherTodayResponse, error) {
	now := s.clock.Now()

	teacher, err := s.teachers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherTodayResponse{}, ErrNotLinkedTeacher
		}

		return dto.TeacherTodayResponse{}, err
	}

	shifts, err := s.shifts.ListActive(ctx)
	if err != nil {
		return dto.TeacherTodayResponse{}, err
	}

	date := models.DateOf(now)
	response := dto.TeacherTodayResponse{
		Date:    models.FormatDate(date),
		RestDay: s.policy.IsRestDay(now),
		Shifts:  make([]dto.ShiftStatus, 0, len(shifts)),
	}

	for _, shift := range shifts {
		attended, err := s.teacherLedger.Exists(ctx, teacher.ID, date, shift.ID)
		if err != nil {
			return dto.TeacherTodayResponse{}, err
		}

		response.Shifts = append(response.Shifts, dto.ShiftStatus{
			Shift:    dto.NewShiftResponse(shift),
			Open:     s.policy.IsOpen(shift, now),
			Attended: attended,
		})
	}

	return response, nil
}

func (s *attendanceService) TodayRecords(ctx context.Context) (dto.TodayRecordsResponse, error) {
	date := models.DateOf(s.clock.Now())

	teacherRecords, err := s.teacherLedger.ListByDate(ctx, date)
	if err != nil {
		return dto.TodayRecordsResponse{}, err
	}

	studentRecords, err := s.studentLedger.ListByDate(ctx, date)
	if err != nil {
		return dto.TodayRecordsResponse{}, err
	}

	response := dto.TodayRecordsResponse{
		Date:     models.FormatDate(date),
		Teachers: make([]dto.TeacherAttendanceResponse, 0, len(teacherRecords)),
		Students: make([]dto.StudentAttendanceResponse, 0, len(studentRecords)),
	}
	for _, record := range teacherRecords {
		response.Teachers = append(response.Teachers, dto.NewTeacherAttendanceResponse(record))
	}
	for _, record := range studentRecords {
		response.Students = append(response.Students, dto.NewStudentAttendanceResponse(record))
	}

	return response, nil
}

// mirrorAppend pushes one event to the external ledger with a bounded timeout.
// The local write has already committed; failures downgrade to a warning.
func (s *attendanceService) mirrorAppend(ctx context.Context, row sheets.Row) (int64, string) {
	if s.mirror == nil {
		return 0, ""
	}

	ctx, span := s.tracer.Start(ctx, "attendance.mirror_append", trace.WithAttributes(
		attribute.String("mirror.name", row.Name),
		attribute.String("mirror.shift", row.Shift),
	))
	defer span.End()

	mirrorCtx, cancel := context.WithTimeout(ctx, s.mirrorTimeout)
	defer cancel()

	ref, err := s.mirror.Append(mirrorCtx, row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mirror append failed")
		observability.MirrorSync().WithLabelValues("append", "error").Inc()
		s.logger.Warn().Err(err).Str("name", row.Name).Msg("mirror append failed")
		return 0, mirrorWarning
	}

	observability.MirrorSync().WithLabelValues("append", "ok").Inc()
	return ref, ""
}

func (s *attendanceService) mirrorDelete(ctx context.Context, row *int64) string {
	if s.mirror == nil || row == nil {
		return ""
	}

	ctx, span := s.tracer.Start(ctx, "attendance.mirror_delete", trace.WithAttributes(
		attribute.Int64("mirror.row", *row),
	))
	defer span.End()

	mirrorCtx, cancel := context.WithTimeout(ctx, s.mirrorTimeout)
	defer cancel()

	if _, err := s.mirror.Delete(mirrorCtx, *row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mirror delete failed")
		observability.MirrorSync().WithLabelValues("delete", "error").Inc()
		s.logger.Warn().Err(err).Int64("sheet_row", *row).Msg("mirror delete failed")
		return "record deleted locally but the external ledger row could not be removed"
	}

	observability.MirrorSync().WithLabelValues("delete", "ok").Inc()
	return ""
}
