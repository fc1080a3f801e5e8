package service

import (
	"time"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
)

// ShiftPolicy decides when shifts accept clock-ins. Windows are inclusive on
// both ends, so adjacent shifts share their boundary minute and callers must
// pick a shift explicitly.
type ShiftPolicy struct {
	restDay time.Weekday
}

// NewShiftPolicy builds a policy with the given weekly rest day.
func NewShiftPolicy(restDay time.Weekday) ShiftPolicy {
	return ShiftPolicy{restDay: restDay}
}

// RestDay returns the configured weekly rest day.
func (p ShiftPolicy) RestDay() time.Weekday {
	return p.restDay
}

// IsRestDay reports whether the instant falls on the weekly rest day.
func (p ShiftPolicy) IsRestDay(t time.Time) bool {
	return t.Weekday() == p.restDay
}

// InWindow reports whether the instant's wall-clock time lies inside the
// shift window, inclusive of both bounds.
func (p ShiftPolicy) InWindow(shift models.Shift, t time.Time) bool {
	minute := models.MinuteOfDay(t)
	return minute >= shift.StartMinute() && minute <= shift.EndMinute()
}

// IsOpen reports whether the shift accepts clock-ins at the instant.
func (p ShiftPolicy) IsOpen(shift models.Shift, t time.Time) bool {
	return !p.IsRestDay(t) && p.InWindow(shift, t)
}

// OpenShifts returns every shift open at the instant. Multiple one-on-one
// variants can be open simultaneously; no disambiguation happens here.
func (p ShiftPolicy) OpenShifts(shifts []models.Shift, t time.Time) []models.Shift {
	if p.IsRestDay(t) {
		return nil
	}

	open := make([]models.Shift, 0, len(shifts))
	for _, shift := range shifts {
		if p.InWindow(shift, t) {
			open = append(open, shift)
		}
	}

	return open
}

// HoursFor returns the payroll duration configured for the shift.
func (p ShiftPolicy) HoursFor(shift models.Shift) float64 {
	return shift.Hours
}

// EligibleDays counts the calendar days in a month excluding the rest day.
func (p ShiftPolicy) EligibleDays(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	days := 0
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		if day.Weekday() != p.restDay {
			days++
		}
	}

	return days
}
