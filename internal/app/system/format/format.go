// Package format holds the display helpers shared by every page: dates,
// clock times, relative days, truncation and status badge classes.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/clubhub/internal/domain/models"
)

const (
	DateLayout  = "Mon, Jan 2, 2006"
	ClockLayout = "03:04 PM"
	InputDate   = "2006-01-02"
)

// Date renders t as "Mon, Jan 2, 2006". The zero time renders as "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Time renders the clock part of t as "03:04 PM".
func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ClockLayout)
}

// DateTime renders "Mon, Jan 2, 2006 at 03:04 PM".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Date(t) + " at " + Time(t)
}

// Clock converts an API "15:04" string to "03:04 PM". Unparseable input is
// returned unchanged.
func Clock(hhmm string) string {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return hhmm
	}
	return t.Format(ClockLayout)
}

// InputValue renders t for an <input type="date">.
func InputValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(InputDate)
}

// ParseInputDate parses a date input value; blank gives the zero time.
func ParseInputDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(InputDate, s)
}

// DaysUntil counts whole days from now to t, rounding up.
// Past dates give zero or a negative number.
func DaysUntil(t, now time.Time) int {
	d := t.Sub(now)
	days := int(d / (24 * time.Hour))
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// IsPast reports whether t is before now.
func IsPast(t, now time.Time) bool { return t.Before(now) }

// IsToday reports whether t falls on now's calendar day in now's location.
func IsToday(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Truncate shortens s to max runes and appends "..." when it cut anything.
func Truncate(s string, max int) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}

// Money renders an amount as "$12.50".
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// MemberStatusClass maps a member status to its badge class.
func MemberStatusClass(status string) string {
	switch strings.ToLower(status) {
	case models.MemberActive:
		return "badge-green"
	case models.MemberSuspended:
		return "badge-yellow"
	case models.MemberExpired:
		return "badge-red"
	}
	return "badge-gray"
}

// ClassStatusClass maps a class status to its badge class.
func ClassStatusClass(status string) string {
	switch strings.ToLower(status) {
	case models.ClassScheduled:
		return "badge-blue"
	case models.ClassInProgress:
		return "badge-green"
	case models.ClassCancelled:
		return "badge-red"
	}
	return "badge-gray"
}

// BookingStatusClass covers reservations and office bookings.
func BookingStatusClass(status string) string {
	switch strings.ToLower(status) {
	case "confirmed":
		return "badge-green"
	case "cancelled", "no-show":
		return "badge-red"
	case "completed":
		return "badge-blue"
	}
	return "badge-gray"
}

// ActiveLabel renders an active flag.
func ActiveLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}
