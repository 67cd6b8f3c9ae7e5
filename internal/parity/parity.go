// Package parity определяет чётность учебной недели относительно опорного понедельника.
package parity

import "time"

// Calculator хранит опорный понедельник заведомо чётной недели.
type Calculator struct {
	anchor time.Time
}

// New нормализует anchor к понедельнику его недели.
func New(anchor time.Time) Calculator {
	return Calculator{anchor: MondayOf(anchor)}
}

func (c Calculator) Anchor() time.Time {
	return c.anchor
}

// MondayOf возвращает полночь (UTC) понедельника недели, содержащей date.
// Воскресенье относится к неделе предыдущего понедельника.
func MondayOf(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeksBetween - целое число недель от опорного понедельника до недели date.
func (c Calculator) WeeksBetween(date time.Time) int {
	days := int(MondayOf(date).Sub(c.anchor).Hours()) / 24
	return days / 7
}

// IsEvenWeek сообщает, чётная ли неделя, содержащая date.
func (c Calculator) IsEvenWeek(date time.Time) bool {
	return c.WeeksBetween(date)%2 == 0
}

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
