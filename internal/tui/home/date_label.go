package home

import (
	"time"

	"daylist/internal/tasks/data"
)

// DateLabel names a bucket for its heading: "Expired", "Today", "Tomorrow",
// a weekday for the rest of the current week, otherwise a short date.
func DateLabel(key string, today data.Date, weekStart time.Weekday) string {
	if key == data.ExpiredKey {
		return data.ExpiredKey
	}
	d, err := data.ParseDate(key)
	if err != nil {
		return key
	}

	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDays(1)):
		return "Tomorrow"
	case d.Before(endOfWeek(today, weekStart)):
		return d.Weekday().String()
	case d.Year() != today.Year():
		return d.Format("Mon, Jan 2 2006")
	}
	return d.Format("Mon, Jan 2")
}

// endOfWeek is the first day of the week after the one containing today.
func endOfWeek(today data.Date, weekStart time.Weekday) data.Date {
	offset := (int(today.Weekday()) - int(weekStart) + 7) % 7
	return today.AddDays(7 - offset)
}
