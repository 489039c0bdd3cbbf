package utils

import "time"

// DateLayout is the calendar day format used for meal dates.
const DateLayout = "2006-01-02"

// DateOf formats t as a meal date in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDate reports whether s is a real YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatCreatedAt renders a stored createdAt timestamp as local "02/01 15:04".
// Unparseable values are returned unchanged.
func FormatCreatedAt(createdAt string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02/01 15:04")
}
