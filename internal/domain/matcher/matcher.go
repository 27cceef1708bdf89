package matcher

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

// ===============================
// Shifts
// ===============================

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
	ShiftAny       Shift = "any"
)

var shiftHours = map[Shift][2]int{
	ShiftMorning:   {8, 12},
	ShiftAfternoon: {14, 18},
	ShiftEvening:   {18, 21},
	ShiftAny:       {8, 21},
}

var shiftAliases = map[string]Shift{
	"morning":   ShiftMorning,
	"manha":     ShiftMorning,
	"manhã":     ShiftMorning,
	"afternoon": ShiftAfternoon,
	"tarde":     ShiftAfternoon,
	"evening":   ShiftEvening,
	"noite":     ShiftEvening,
	"any":       ShiftAny,
	"qualquer":  ShiftAny,
	"":          ShiftAny,
}

func ParseShift(s string) (Shift, error) {
	if sh, ok := shiftAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sh, nil
	}
	return "", httperr.Validation("invalid_shift", "turno desconhecido: "+s)
}

// Window returns the shift's clock window on day.
func (s Shift) Window(day time.Time) (time.Time, time.Time) {
	h, ok := shiftHours[s]
	if !ok {
		h = shiftHours[ShiftAny]
	}
	y, m, d := day.Date()
	loc := day.Location()
	return time.Date(y, m, d, h[0], 0, 0, 0, loc), time.Date(y, m, d, h[1], 0, 0, 0, loc)
}

// ===============================
// Date keywords
// ===============================

var relativeDays = map[string]int{
	"today":              0,
	"hoje":               0,
	"tomorrow":           1,
	"amanha":             1,
	"amanhã":             1,
	"day_after_tomorrow": 2,
	"depois_de_amanha":   2,
	"depois_de_amanhã":   2,
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"domingo":   time.Sunday,
	"monday":    time.Monday,
	"segunda":   time.Monday,
	"tuesday":   time.Tuesday,
	"terca":     time.Tuesday,
	"terça":     time.Tuesday,
	"wednesday": time.Wednesday,
	"quarta":    time.Wednesday,
	"thursday":  time.Thursday,
	"quinta":    time.Thursday,
	"friday":    time.Friday,
	"sexta":     time.Friday,
	"saturday":  time.Saturday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
}

// ResolveDate turns a keyword or YYYY-MM-DD into midnight of that day in
// now's location. A weekday name is its next occurrence, never today.
func ResolveDate(keyword string, now time.Time) (time.Time, error) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, "-feira", "")

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if k == "" {
		return today, nil
	}

	if n, ok := relativeDays[k]; ok {
		return today.AddDate(0, 0, n), nil
	}

	if wd, ok := weekdays[k]; ok {
		diff := (int(wd) - int(today.Weekday()) + 7) % 7
		if diff == 0 {
			diff = 7
		}
		return today.AddDate(0, 0, diff), nil
	}

	d, err := time.ParseInLocation("2006-01-02", k, now.Location())
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "data não reconhecida: "+keyword)
	}
	return d, nil
}
