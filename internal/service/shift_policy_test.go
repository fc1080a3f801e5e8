package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
)

func testShift(code, start, end string, hours float64) models.Shift {
	return models.Shift{Code: code, StartTime: start, EndTime: end, Hours: hours, Active: true}
}

func TestShiftPolicyWindowInclusiveBounds(t *testing.T) {
	policy := NewShiftPolicy(time.Sunday)
	morning := testShift("morning", "06:00", "12:00", 6)

	monday := func(hour, minute int) time.Time {
		return time.Date(2025, 3, 3, hour, minute, 0, 0, time.UTC)
	}

	require.True(t, policy.InWindow(morning, monday(6, 0)), "window start is inclusive")
	require.True(t, policy.InWindow(morning, monday(12, 0)), "window end is inclusive")
	require.True(t, policy.InWindow(morning, monday(9, 30)))
	require.False(t, policy.InWindow(morning, monday(5, 59)))
	require.False(t, policy.InWindow(morning, monday(12, 1)))
}

func TestShiftPolicyAdjacentShiftsShareBoundary(t *testing.T) {
	policy := NewShiftPolicy(time.Sunday)
	morning := testShift("morning", "06:00", "12:00", 6)
	afternoon := testShift("afternoon", "12:00", "16:45", 4.75)

	noon := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	open := policy.OpenShifts([]models.Shift{morning, afternoon}, noon)
	require.Len(t, open, 2)
}

func TestShiftPolicyRestDayClosesEverything(t *testing.T) {
	policy := NewShiftPolicy(time.Sunday)
	morning := testShift("morning", "06:00", "12:00", 6)

	sunday := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	require.True(t, policy.IsRestDay(sunday))
	require.False(t, policy.IsOpen(morning, sunday))
	require.Empty(t, policy.OpenShifts([]models.Shift{morning}, sunday))
}

func TestShiftPolicyOneOnOneVariantsOpenTogether(t *testing.T) {
	policy := NewShiftPolicy(time.Sunday)
	variants := []models.Shift{
		testShift("1on1_1h", "16:45", "21:00", 1),
		testShift("1on1_1.5h", "16:45", "21:00", 1.5),
		testShift("1on1_2h", "16:45", "21:00", 2),
	}

	evening := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	open := policy.OpenShifts(variants, evening)
	require.Len(t, open, 3)
}

func TestShiftPolicyEligibleDays(t *testing.T) {
	policy := NewShiftPolicy(time.Sunday)

	// March 2025 has 31 days and five Sundays.
	require.Equal(t, 26, policy.EligibleDays(2025, time.March))
	// February 2025 has 28 days and four Sundays.
	require.Equal(t, 24, policy.EligibleDays(2025, time.February))
}
