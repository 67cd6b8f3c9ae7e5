package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllSlots(t *testing.T) {
	slots := AllSlots()
	assert.Len(t, slots, 20)
	assert.Equal(t, Slot{Day: 1, Pair: 1}, slots[0])
	assert.Equal(t, Slot{Day: 5, Pair: 4}, slots[19])
	for _, s := range slots {
		assert.True(t, s.Valid(), s.String())
	}
	assert.False(t, Slot{Day: 6, Pair: 1}.Valid())
	assert.False(t, Slot{Day: 1, Pair: 0}.Valid())
}

func TestWeekTypeFlagRoundTrip(t *testing.T) {
	for _, w := range []WeekType{WeekAlways, WeekEven, WeekOdd} {
		assert.Equal(t, w, WeekTypeFromFlag(w.Flag()))
	}
	assert.Nil(t, WeekAlways.Flag())
	assert.False(t, WeekType("weekly").Valid())
}

func TestWeekTypeMatches(t *testing.T) {
	assert.True(t, WeekAlways.Matches(true))
	assert.True(t, WeekAlways.Matches(false))
	assert.True(t, WeekEven.Matches(true))
	assert.False(t, WeekEven.Matches(false))
	assert.True(t, WeekOdd.Matches(false))
	assert.False(t, WeekOdd.Matches(true))
}
