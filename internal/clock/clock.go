package clock

import "time"

// Clock supplies the current local time. Attendance decisions are made against
// naive wall-clock values in the center's timezone, so every consumer goes
// through this interface instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

type zoneClock struct {
	loc *time.Location
}

// NewZoneClock returns a Clock that yields the current time in the given location.
func NewZoneClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}

	return zoneClock{loc: loc}
}

func (c zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed returns a Clock pinned to a single instant, for tests.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}
