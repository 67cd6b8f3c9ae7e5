package parity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var referenceMonday = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

func TestIsEvenWeekFromReference(t *testing.T) {
	c := New(referenceMonday)

	assert.True(t, c.IsEvenWeek(referenceMonday))
	assert.False(t, c.IsEvenWeek(referenceMonday.AddDate(0, 0, 7)))
	assert.True(t, c.IsEvenWeek(referenceMonday.AddDate(0, 0, 14)))
	assert.False(t, c.IsEvenWeek(referenceMonday.AddDate(0, 0, -7)))
	assert.True(t, c.IsEvenWeek(referenceMonday.AddDate(0, 0, -14)))
}

func TestSundayBelongsToPrecedingMonday(t *testing.T) {
	c := New(referenceMonday)

	sunday := time.Date(2025, time.September, 7, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, referenceMonday, MondayOf(sunday))
	assert.True(t, c.IsEvenWeek(sunday))

	nextMonday := time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC)
	assert.False(t, c.IsEvenWeek(nextMonday))
}

func TestWholeWeekWalk(t *testing.T) {
	c := New(referenceMonday)
	date := referenceMonday
	want := true
	for i := range 400 {
		if i > 0 && i%7 == 0 {
			want = !want
		}
		if got := c.IsEvenWeek(date); got != want {
			t.Errorf("IsEvenWeek(%s) = %v, want %v", date.Format(time.DateOnly), got, want)
		}
		date = date.AddDate(0, 0, 1)
	}
}

func TestAnchorIsNormalizedToMonday(t *testing.T) {
	wednesday := time.Date(2025, time.September, 3, 15, 0, 0, 0, time.UTC)
	c := New(wednesday)
	assert.Equal(t, referenceMonday, c.Anchor())
	assert.True(t, c.IsEvenWeek(referenceMonday))
}

func TestLocalTimezoneDoesNotShiftWeek(t *testing.T) {
	kyiv := time.FixedZone("EET", 2*60*60)
	c := New(referenceMonday)

	earlyMonday := time.Date(2025, time.September, 8, 0, 30, 0, 0, kyiv)
	assert.False(t, c.IsEvenWeek(earlyMonday))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-09-14")
	assert.NoError(t, err)
	assert.Equal(t, time.Sunday, d.Weekday())

	_, err = ParseDate("14.09.2025")
	assert.Error(t, err)
}
