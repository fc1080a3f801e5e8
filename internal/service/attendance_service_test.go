package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lhp-attendance-api/internal/clock"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
)

type attendanceFixture struct {
	service       AttendanceService
	users         *stubUsers
	teachers      *stubTeachers
	students      *stubStudents
	shifts        *stubShifts
	teacherLedger *stubTeacherLedger
	studentLedger *stubStudentLedger
	mirror        *stubMirror
}

func newAttendanceFixture(t *testing.T, now time.Time, mirror *stubMirror) attendanceFixture {
	t.Helper()

	adminID := uint(1)
	teacherUserID := uint(2)

	users := newStubUsers(
		models.User{ID: adminID, Name: "Admin", Email: "admin@example.com", IsAdmin: true},
		models.User{ID: teacherUserID, Name: "An Nguyen", Email: "an@example.com"},
	)
	teachers := newStubTeachers(
		models.Teacher{ID: 1, Name: "An Nguyen", Email: "an@example.com", Active: true, UserID: &teacherUserID},
	)
	students := newStubStudents(
		models.Student{ID: 1, Name: "Binh Tran", Active: true},
	)
	shifts := newStubShifts(
		models.Shift{ID: 1, Code: models.ShiftMorning, Name: "Morning", StartTime: "06:00", EndTime: "12:00", Hours: 6, Category: models.ShiftCategorySingle, Active: true},
		models.Shift{ID: 2, Code: models.ShiftAfternoon, Name: "Afternoon", StartTime: "12:00", EndTime: "16:45", Hours: 4.75, Category: models.ShiftCategorySingle, Active: true},
		models.Shift{ID: 3, Code: models.ShiftOneOnOne1H, Name: "One-on-one (1h)", StartTime: "16:45", EndTime: "21:00", Hours: 1, Category: models.ShiftCategoryOneOnOne, Active: true},
	)
	teacherLedger := newStubTeacherLedger()
	studentLedger := newStubStudentLedger()

	svc := NewAttendanceService(
		teacherLedger, studentLedger, teachers, students, users, shifts,
		NewShiftPolicy(time.Sunday), mirror, time.Second, clock.Fixed(now), zerolog.Nop(),
	)

	return attendanceFixture{
		service:       svc,
		users:         users,
		teachers:      teachers,
		students:      students,
		shifts:        shifts,
		teacherLedger: teacherLedger,
		studentLedger: studentLedger,
		mirror:        mirror,
	}
}

// Monday 2025-03-03 inside the morning window.
var mondayMorning = time.Date(2025, 3, 3, 8, 30, 0, 0, time.UTC)

func TestClockInRecordsAttendance(t *testing.T) {
	mirror := &stubMirror{appendRef: 12}
	fx := newAttendanceFixture(t, mondayMorning, mirror)

	response, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.NoError(t, err)
	require.Equal(t, uint(1), response.TeacherID)
	require.Equal(t, "2025-03-03", response.Date)
	require.Equal(t, "08:30", response.Time)
	require.Equal(t, models.ShiftMorning, response.ShiftCode)
	require.Empty(t, response.MirrorWarning)
	require.NotNil(t, response.SheetRow)
	require.EqualValues(t, 12, *response.SheetRow)
	require.Equal(t, 1, mirror.appendCalls)

	// Row reference persisted on the local record.
	stored, err := fx.teacherLedger.GetByID(context.Background(), response.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SheetRow)
	require.EqualValues(t, 12, *stored.SheetRow)
}

func TestClockInRejectsRestDay(t *testing.T) {
	sunday := time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC)
	fx := newAttendanceFixture(t, sunday, &stubMirror{})

	_, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.ErrorIs(t, err, ErrRestDay)
	require.Zero(t, fx.mirror.appendCalls)
}

func TestClockInRejectsOutsideWindow(t *testing.T) {
	lateEvening := time.Date(2025, 3, 3, 22, 0, 0, 0, time.UTC)
	fx := newAttendanceFixture(t, lateEvening, &stubMirror{})

	_, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.ErrorIs(t, err, ErrOutsideWindow)
}

func TestClockInAcceptsWindowBoundaries(t *testing.T) {
	for _, instant := range []time.Time{
		time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC),
	} {
		fx := newAttendanceFixture(t, instant, &stubMirror{})
		_, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
		require.NoError(t, err, "boundary %s should be inside the window", instant.Format("15:04"))
	}
}

func TestClockInRejectsDuplicate(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	_, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.NoError(t, err)

	_, err = fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.ErrorIs(t, err, ErrDuplicateAttendance)
	require.Equal(t, 1, fx.mirror.appendCalls, "the duplicate must not reach the mirror")
}

func TestClockInRejectsUnknownShift(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	_, err := fx.service.ClockIn(context.Background(), 2, "overnight")
	require.ErrorIs(t, err, ErrShiftNotFound)
}

func TestClockInRejectsUnlinkedAccount(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	// User 1 is the admin; no teacher row points at it.
	_, err := fx.service.ClockIn(context.Background(), 1, models.ShiftMorning)
	require.ErrorIs(t, err, ErrNotLinkedTeacher)
}

func TestClockInSurvivesMirrorFailure(t *testing.T) {
	mirror := &stubMirror{appendErr: errors.New("spreadsheet unreachable")}
	fx := newAttendanceFixture(t, mondayMorning, mirror)

	response, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.NoError(t, err, "a mirror failure must not fail the clock-in")
	require.NotEmpty(t, response.MirrorWarning)
	require.Nil(t, response.SheetRow)

	exists, err := fx.teacherLedger.Exists(context.Background(), 1, models.DateOf(mondayMorning), 1)
	require.NoError(t, err)
	require.True(t, exists, "record persisted locally despite the mirror failure")
}

func TestMarkStudentPresent(t *testing.T) {
	mirror := &stubMirror{appendRef: 7}
	fx := newAttendanceFixture(t, mondayMorning, mirror)

	response, err := fx.service.MarkStudentPresent(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, uint(1), response.StudentID)
	require.Equal(t, "08:30", response.Time)
	require.NotNil(t, response.SheetRow)

	_, err = fx.service.MarkStudentPresent(context.Background(), 2, 1)
	require.ErrorIs(t, err, ErrDuplicateAttendance, "one presence mark per student per day")
}

func TestMarkStudentPresentUnknownStudent(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	_, err := fx.service.MarkStudentPresent(context.Background(), 2, 99)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestDeleteTeacherAttendanceRemovesMirrorRow(t *testing.T) {
	mirror := &stubMirror{appendRef: 21}
	fx := newAttendanceFixture(t, mondayMorning, mirror)

	response, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.NoError(t, err)

	warning, err := fx.service.DeleteTeacherAttendance(context.Background(), response.ID)
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, 1, mirror.deleteCalls)
	require.EqualValues(t, 21, mirror.lastRow)

	_, err = fx.teacherLedger.GetByID(context.Background(), response.ID)
	require.Error(t, err)
}

func TestDeleteSurvivesMirrorFailure(t *testing.T) {
	mirror := &stubMirror{appendRef: 21}
	fx := newAttendanceFixture(t, mondayMorning, mirror)

	response, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.NoError(t, err)

	mirror.deleteErr = errors.New("spreadsheet unreachable")
	warning, err := fx.service.DeleteTeacherAttendance(context.Background(), response.ID)
	require.NoError(t, err, "local delete proceeds even when the mirror fails")
	require.NotEmpty(t, warning)

	_, err = fx.teacherLedger.GetByID(context.Background(), response.ID)
	require.Error(t, err, "local record is gone")
}

func TestDeleteTeacherAttendanceNotFound(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	_, err := fx.service.DeleteTeacherAttendance(context.Background(), 42)
	require.ErrorIs(t, err, ErrAttendanceNotFound)
}

func TestTeacherToday(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	_, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.NoError(t, err)

	today, err := fx.service.TeacherToday(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "2025-03-03", today.Date)
	require.False(t, today.RestDay)
	require.Len(t, today.Shifts, 3)

	byCode := make(map[string]bool, len(today.Shifts))
	open := make(map[string]bool, len(today.Shifts))
	for _, status := range today.Shifts {
		byCode[status.Shift.Code] = status.Attended
		open[status.Shift.Code] = status.Open
	}

	require.True(t, byCode[models.ShiftMorning])
	require.False(t, byCode[models.ShiftAfternoon])
	require.True(t, open[models.ShiftMorning])
	require.False(t, open[models.ShiftOneOnOne1H])
}

func TestTodayRecords(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	_, err := fx.service.ClockIn(context.Background(), 2, models.ShiftMorning)
	require.NoError(t, err)
	_, err = fx.service.MarkStudentPresent(context.Background(), 2, 1)
	require.NoError(t, err)

	records, err := fx.service.TodayRecords(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2025-03-03", records.Date)
	require.Len(t, records.Teachers, 1)
	require.Len(t, records.Students, 1)
}

func TestCurrentOpenShifts(t *testing.T) {
	fx := newAttendanceFixture(t, mondayMorning, &stubMirror{})

	open, err := fx.service.CurrentOpenShifts(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, models.ShiftMorning, open[0].Code)
}
