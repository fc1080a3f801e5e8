package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
)

func TestBootstrapSeedsDefaults(t *testing.T) {
	shifts := newStubShifts()
	users := newStubUsers()
	students := newStubStudents()

	bootstrap := NewBootstrapService(shifts, users, students, BootstrapConfig{
		AdminName:     "Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "s3cret",
		StudentNames:  []string{"Binh Tran", "Dung Pham"},
	}, zerolog.Nop())

	require.NoError(t, bootstrap.Run(context.Background()))

	seeded, err := shifts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, seeded, 5)

	morning, err := shifts.GetByCode(context.Background(), models.ShiftMorning)
	require.NoError(t, err)
	require.Equal(t, "06:00", morning.StartTime)
	require.Equal(t, "12:00", morning.EndTime)
	require.InDelta(t, 6, morning.Hours, 1e-9)

	admin, err := users.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.True(t, admin.IsAdmin)
	require.True(t, admin.CheckPassword("s3cret"))

	count, err := students.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	shifts := newStubShifts()
	users := newStubUsers()
	students := newStubStudents()

	bootstrap := NewBootstrapService(shifts, users, students, BootstrapConfig{
		AdminEmail:    "admin@example.com",
		AdminPassword: "s3cret",
		StudentNames:  []string{"Binh Tran"},
	}, zerolog.Nop())

	require.NoError(t, bootstrap.Run(context.Background()))
	require.NoError(t, bootstrap.Run(context.Background()))

	seeded, err := shifts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, seeded, 5, "shifts are seeded exactly once")

	count, err := students.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, count, "students are only seeded into an empty roster")
	require.Len(t, users.users, 1)
}

func TestBootstrapSkipsSeedWhenAdminExists(t *testing.T) {
	existing := models.User{ID: 1, Name: "Founder", Email: "founder@example.com", IsAdmin: true}
	users := newStubUsers(existing)

	bootstrap := NewBootstrapService(newStubShifts(), users, newStubStudents(), BootstrapConfig{
		AdminEmail:    "admin@example.com",
		AdminPassword: "s3cret",
	}, zerolog.Nop())

	require.NoError(t, bootstrap.Run(context.Background()))
	require.Len(t, users.users, 1, "the configured seed must not add a second admin")

	_, err := users.GetByEmail(context.Background(), "admin@example.com")
	require.Error(t, err)
}

func TestBootstrapSkipsAdminWithoutCredentials(t *testing.T) {
	users := newStubUsers()

	bootstrap := NewBootstrapService(newStubShifts(), users, newStubStudents(), BootstrapConfig{}, zerolog.Nop())
	require.NoError(t, bootstrap.Run(context.Background()))
	require.Empty(t, users.users)
}

func TestBootstrapKeepsExistingStudents(t *testing.T) {
	students := newStubStudents(models.Student{ID: 1, Name: "Existing", Active: true})

	bootstrap := NewBootstrapService(newStubShifts(), newStubUsers(), students, BootstrapConfig{
		StudentNames: []string{"Binh Tran", "Dung Pham"},
	}, zerolog.Nop())

	require.NoError(t, bootstrap.Run(context.Background()))

	count, err := students.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestDefaultShiftWindowsAreValid(t *testing.T) {
	for _, shift := range defaultShifts {
		require.NoError(t, shift.ValidateWindow(), "shift %s", shift.Code)
	}
}
