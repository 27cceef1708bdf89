package schedule

import "time"

// FreeIntervals lists the bookable intervals of length duration inside the
// window, stepping by duration from the start of the day's working hours.
// Intervals touching lunch or any busy interval, or starting before
// notBefore, are skipped.
func FreeIntervals(
	win Window,
	duration time.Duration,
	busy []Interval,
	notBefore time.Time,
) []Interval {

	if duration <= 0 {
		return nil
	}

	out := []Interval{}

	for cur := win.Start; !cur.Add(duration).After(win.End); cur = cur.Add(duration) {

		candidate := Interval{Start: cur, End: cur.Add(duration)}

		if cur.Before(notBefore) {
			continue
		}

		// almoço
		if win.HitsLunch(candidate) {
			continue
		}

		conflict := false
		for _, b := range busy {
			if candidate.Overlaps(b) {
				conflict = true
				break
			}
		}

		if !conflict {
			out = append(out, candidate)
		}
	}

	return out
}
