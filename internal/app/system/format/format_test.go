package format_test

import (
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/stretchr/testify/assert"
)

var noon = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func TestDateAndTime(t *testing.T) {
	ts := time.Date(2026, time.March, 2, 18, 5, 0, 0, time.UTC)

	assert.Equal(t, "Mon, Mar 2, 2026", format.Date(ts))
	assert.Equal(t, "06:05 PM", format.Time(ts))
	assert.Equal(t, "Mon, Mar 2, 2026 at 06:05 PM", format.DateTime(ts))
	assert.Equal(t, "", format.Date(time.Time{}))
	assert.Equal(t, "", format.DateTime(time.Time{}))
}

func TestClock(t *testing.T) {
	assert.Equal(t, "09:30 AM", format.Clock("09:30"))
	assert.Equal(t, "05:45 PM", format.Clock("17:45"))
	assert.Equal(t, "soon", format.Clock("soon"))
}

func TestInputDateRoundTrip(t *testing.T) {
	got, err := format.ParseInputDate("2026-03-02")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-02", format.InputValue(got))

	zero, err := format.ParseInputDate("  ")
	assert.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = format.ParseInputDate("03/02/2026")
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 1, format.DaysUntil(noon.Add(2*time.Hour), noon))
	assert.Equal(t, 3, format.DaysUntil(noon.Add(72*time.Hour), noon))
	assert.Equal(t, 0, format.DaysUntil(noon, noon))
	assert.Equal(t, -2, format.DaysUntil(noon.Add(-48*time.Hour), noon))
}

func TestIsPastAndToday(t *testing.T) {
	assert.True(t, format.IsPast(noon.Add(-time.Minute), noon))
	assert.False(t, format.IsPast(noon.Add(time.Minute), noon))

	assert.True(t, format.IsToday(noon.Add(11*time.Hour), noon))
	assert.False(t, format.IsToday(noon.Add(13*time.Hour), noon))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", format.Truncate("short", 10))
	assert.Equal(t, "Power...", format.Truncate("Power Yoga", 5))
	assert.Equal(t, "héll...", format.Truncate("héllo wörld", 4))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.50", format.Money(12.5))
}

func TestStatusClasses(t *testing.T) {
	assert.Equal(t, "badge-green", format.MemberStatusClass("Active"))
	assert.Equal(t, "badge-red", format.MemberStatusClass("expired"))
	assert.Equal(t, "badge-gray", format.MemberStatusClass("unknown"))
	assert.Equal(t, "badge-blue", format.ClassStatusClass("scheduled"))
	assert.Equal(t, "badge-red", format.ClassStatusClass("cancelled"))
	assert.Equal(t, "badge-red", format.BookingStatusClass("no-show"))
	assert.Equal(t, "Inactive", format.ActiveLabel(false))
}
