package models

import (
	"time"

	"gorm.io/gorm"
)

// Границы сетки расписания: дни недели 1..5 (пн-пт), пары 1..4.
const (
	MaxDay  = 5
	MaxPair = 4
)

// User - оператор расписания, которому разрешены изменяющие запросы.
type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Surname      string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

// Lesson - занятие в слоте (день, номер пары). Группы и преподаватели привязаны через
// GroupLesson и TeacherLesson. Удаляется физически, идентификаторы не переиспользуются.
type Lesson struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Day               int             `gorm:"not null;index:idx_lessons_slot" json:"day"`
	NumberOfPair      int             `gorm:"not null;index:idx_lessons_slot" json:"number_of_pair"`
	Subject           string          `gorm:"not null" json:"subject"`
	HoursOfSubject    int             `gorm:"not null" json:"hours_of_subject"`
	IsLecture         bool            `gorm:"not null;default:false" json:"is_lecture"`
	HasConsultation   bool            `gorm:"not null;default:false" json:"has_consultation"`
	ConsultationHours int             `gorm:"not null;default:0" json:"consultation_hours"`
	IsEvenWeek        *bool           `json:"is_even_week"` // nil - каждую неделю
	GroupLessons      []GroupLesson   `gorm:"constraint:OnDelete:CASCADE" json:"group_lessons,omitempty"`
	TeacherLessons    []TeacherLesson `gorm:"constraint:OnDelete:CASCADE" json:"teacher_lessons,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (l Lesson) Slot() Slot {
	return Slot{Day: l.Day, Pair: l.NumberOfPair}
}

func (l Lesson) WeekType() WeekType {
	return WeekTypeFromFlag(l.IsEvenWeek)
}

func (l Lesson) GroupIDs() []uint {
	ids := make([]uint, 0, len(l.GroupLessons))
	for _, gl := range l.GroupLessons {
		ids = append(ids, gl.GroupID)
	}
	return ids
}

func (l Lesson) TeacherIDs() []uint {
	ids := make([]uint, 0, len(l.TeacherLessons))
	for _, tl := range l.TeacherLessons {
		ids = append(ids, tl.TeacherID)
	}
	return ids
}

// Group - учебная группа. Имя уникально, курс и специальность из закрытых множеств.
type Group struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	Course    int    `gorm:"not null" json:"course"`
	Specialty string `gorm:"not null" json:"specialty"`
}

// Teacher - преподаватель. FullName в формате "Фамилия И. О.".
type Teacher struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	FullName  string     `gorm:"uniqueIndex;not null" json:"full_name"`
	Position  string     `gorm:"not null" json:"position"`
	FreeHours []FreeHour `json:"free_hours,omitempty"`
}

type GroupLesson struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	GroupID  uint  `gorm:"not null;uniqueIndex:idx_group_lesson" json:"group_id"`
	LessonID uint  `gorm:"not null;uniqueIndex:idx_group_lesson;index" json:"lesson_id"`
	Group    Group `gorm:"constraint:OnDelete:RESTRICT" json:"group"`
}

type TeacherLesson struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	TeacherID uint    `gorm:"not null;uniqueIndex:idx_teacher_lesson" json:"teacher_id"`
	LessonID  uint    `gorm:"not null;uniqueIndex:idx_teacher_lesson;index" json:"lesson_id"`
	Teacher   Teacher `gorm:"constraint:OnDelete:RESTRICT" json:"teacher"`
}

// FreeHour - слот доступности преподавателя. IsFree == false тогда и только тогда,
// когда LessonID указывает на занятие, занимающее слот.
type FreeHour struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	TeacherID    uint  `gorm:"not null;uniqueIndex:idx_free_hour_slot" json:"teacher_id"`
	Day          int   `gorm:"not null;uniqueIndex:idx_free_hour_slot" json:"day"`
	NumberOfPair int   `gorm:"not null;uniqueIndex:idx_free_hour_slot" json:"number_of_pair"`
	IsFree       bool  `gorm:"not null;default:true" json:"is_free"`
	LessonID     *uint `gorm:"index" json:"lesson_id"`
}

func (f FreeHour) Slot() Slot {
	return Slot{Day: f.Day, Pair: f.NumberOfPair}
}

// All перечисляет сущности для AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{}, &Group{}, &Teacher{}, &Lesson{}, &GroupLesson{}, &TeacherLesson{}, &FreeHour{},
	}
}
