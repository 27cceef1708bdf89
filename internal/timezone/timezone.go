package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock is the time source for the core. Tests pin it.
type Clock func() time.Time

func SystemClock() Clock {
	return time.Now
}

// Fixed returns a clock stuck at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// NowIn reads the clock in the organization's timezone.
func (c Clock) NowIn(tz string) time.Time {
	return c().In(Location(tz))
}

func NowIn(tz string) time.Time {
	return SystemClock().NowIn(tz)
}
