package models

import "fmt"

// Slot - координата (день, пара) в недельной сетке.
type Slot struct {
	Day  int `json:"day" binding:"min=1,max=5" validate:"min=1,max=5"`
	Pair int `json:"pair" binding:"min=1,max=4" validate:"min=1,max=4"`
}

func (s Slot) Valid() bool {
	return s.Day >= 1 && s.Day <= MaxDay && s.Pair >= 1 && s.Pair <= MaxPair
}

func (s Slot) String() string {
	return fmt.Sprintf("день %d, пара %d", s.Day, s.Pair)
}

// AllSlots возвращает все 20 слотов сетки в порядке день-пара.
func AllSlots() []Slot {
	slots := make([]Slot, 0, MaxDay*MaxPair)
	for day := 1; day <= MaxDay; day++ {
		for pair := 1; pair <= MaxPair; pair++ {
			slots = append(slots, Slot{Day: day, Pair: pair})
		}
	}
	return slots
}

// WeekType - чётность недели, по которой проходит занятие.
type WeekType string

const (
	WeekAlways WeekType = "always"
	WeekEven   WeekType = "even"
	WeekOdd    WeekType = "odd"
)

func (w WeekType) Valid() bool {
	switch w {
	case WeekAlways, WeekEven, WeekOdd:
		return true
	}
	return false
}

// Flag переводит тип недели в хранимое значение is_even_week (nil - каждую неделю).
func (w WeekType) Flag() *bool {
	switch w {
	case WeekEven:
		v := true
		return &v
	case WeekOdd:
		v := false
		return &v
	}
	return nil
}

// Matches сообщает, проходит ли занятие в неделю заданной чётности.
func (w WeekType) Matches(evenWeek bool) bool {
	switch w {
	case WeekEven:
		return evenWeek
	case WeekOdd:
		return !evenWeek
	}
	return true
}

func WeekTypeFromFlag(flag *bool) WeekType {
	switch {
	case flag == nil:
		return WeekAlways
	case *flag:
		return WeekEven
	}
	return WeekOdd
}
