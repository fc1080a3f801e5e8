package models

import (
	"fmt"
	"time"
)

// ShiftCategory distinguishes regular group shifts from one-on-one variants.
// One-on-one variants share a wall-clock window and differ only in billed hours.
type ShiftCategory string

const (
	// ShiftCategorySingle marks a regular group shift.
	ShiftCategorySingle ShiftCategory = "single"
	// ShiftCategoryOneOnOne marks a one-on-one tutoring shift variant.
	ShiftCategoryOneOnOne ShiftCategory = "one_on_one"
)

// Default shift codes seeded at bootstrap.
const (
	ShiftMorning    = "morning"
	ShiftAfternoon  = "afternoon"
	ShiftOneOnOne1H = "1on1_1h"
	ShiftOneOnOne15 = "1on1_1.5h"
	ShiftOneOnOne2H = "1on1_2h"
)

// Shift is a named clock-in window with a fixed payroll duration. Start and
// end are local wall-clock times ("HH:MM"); windows never cross midnight.
type Shift struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Code      string        `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	StartTime string        `gorm:"size:5;not null" json:"start_time"`
	EndTime   string        `gorm:"size:5;not null" json:"end_time"`
	Hours     float64       `gorm:"not null" json:"hours"`
	Category  ShiftCategory `gorm:"size:16;not null;default:single" json:"category"`
	Active    bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// StartMinute returns the window start as minutes since midnight.
func (s Shift) StartMinute() int {
	return minuteOfClock(s.StartTime)
}

// EndMinute returns the window end as minutes since midnight.
func (s Shift) EndMinute() int {
	return minuteOfClock(s.EndTime)
}

// MinuteOfDay converts an instant to minutes since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// WallClock formats an instant as the "HH:MM" wall-clock string stored on events.
func WallClock(t time.Time) string {
	return t.Format("15:04")
}

func minuteOfClock(value string) int {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0
	}

	return parsed.Hour()*60 + parsed.Minute()
}

// ValidateWindow checks that the window parses and does not cross midnight.
func (s Shift) ValidateWindow() error {
	if _, err := time.Parse("15:04", s.StartTime); err != nil {
		return fmt.Errorf("invalid start time %q", s.StartTime)
	}
	if _, err := time.Parse("15:04", s.EndTime); err != nil {
		return fmt.Errorf("invalid end time %q", s.EndTime)
	}
	if s.StartMinute() > s.EndMinute() {
		return fmt.Errorf("shift window must not cross midnight")
	}

	return nil
}
