package engine

import (
	"strings"

	"univ_schedule/internal/apperror"
	"univ_schedule/internal/models"
	"univ_schedule/internal/optional"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var fieldCodes = map[string]string{
	"Day":               apperror.CodeInvalidDay,
	"Pair":              apperror.CodeInvalidPair,
	"Subject":           apperror.CodeInvalidSubject,
	"HoursOfSubject":    apperror.CodeInvalidHours,
	"ConsultationHours": apperror.CodeInvalidConsultationHours,
	"WeekType":          apperror.CodeInvalidWeekType,
	"TeacherIDs":        apperror.CodeEmptyTeachers,
	"GroupIDs":          apperror.CodeEmptyGroups,
}

// CreateInput - поля нового занятия. Пустой WeekType означает "каждую неделю".
type CreateInput struct {
	Day               int             `json:"day" validate:"min=1,max=5"`
	Pair              int             `json:"pair" validate:"min=1,max=4"`
	Subject           string          `json:"subject" validate:"required"`
	HoursOfSubject    int             `json:"hours_of_subject" validate:"min=1"`
	HasConsultation   bool            `json:"has_consultation"`
	ConsultationHours int             `json:"consultation_hours" validate:"min=0"`
	IsLecture         bool            `json:"is_lecture"`
	WeekType          models.WeekType `json:"week_type" validate:"omitempty,oneof=always even odd"`
	TeacherIDs        []uint          `json:"teacher_ids" validate:"min=1,dive,min=1"`
	GroupIDs          []uint          `json:"group_ids" validate:"min=1,dive,min=1"`
}

func (in *CreateInput) normalize() {
	in.Subject = strings.TrimSpace(in.Subject)
	if in.WeekType == "" {
		in.WeekType = models.WeekAlways
	}
	in.TeacherIDs = uniqueIDs(in.TeacherIDs)
	in.GroupIDs = uniqueIDs(in.GroupIDs)
}

func (in CreateInput) check() error {
	if err := validate.Struct(in); err != nil {
		return apperror.FromValidator(err, fieldCodes)
	}
	return checkConsultation(in.HasConsultation, in.ConsultationHours)
}

func (in CreateInput) slot() models.Slot {
	return models.Slot{Day: in.Day, Pair: in.Pair}
}

// UpdateInput - частичное обновление: незаданное поле остаётся прежним.
// Пустые строка и список тоже означают "без изменений"; числа и флаги применяются как есть.
type UpdateInput struct {
	Day               optional.Value[int]             `json:"day"`
	Pair              optional.Value[int]             `json:"pair"`
	Subject           optional.Value[string]          `json:"subject"`
	HoursOfSubject    optional.Value[int]             `json:"hours_of_subject"`
	HasConsultation   optional.Value[bool]            `json:"has_consultation"`
	ConsultationHours optional.Value[int]             `json:"consultation_hours"`
	IsLecture         optional.Value[bool]            `json:"is_lecture"`
	WeekType          optional.Value[models.WeekType] `json:"week_type"`
	TeacherIDs        optional.Value[[]uint]          `json:"teacher_ids"`
	GroupIDs          optional.Value[[]uint]          `json:"group_ids"`
}

// plan - итог слияния UpdateInput с текущим занятием.
type plan struct {
	slot            models.Slot
	groupIDs        []uint
	teacherIDs      []uint
	columns         map[string]interface{}
	slotChanged     bool
	groupsChanged   bool
	teachersChanged bool
}

func (p plan) changed() bool {
	return len(p.columns) > 0 || p.groupsChanged || p.teachersChanged
}

func checkVar(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return apperror.Validation(fieldCodes[field], "поле %s: значение %v не проходит проверку %s", field, value, tag)
	}
	return nil
}

func checkConsultation(has bool, hours int) error {
	if has && hours < 1 {
		return apperror.Validation(apperror.CodeInvalidConsultationHours,
			"при наличии консультации нужно указать не менее 1 часа, получено %d", hours)
	}
	return nil
}

// withoutBlanks снимает пустые строки и списки: для этих полей пустое значение
// никогда не допустимо, поэтому оно трактуется как отсутствующее.
func (in UpdateInput) withoutBlanks() UpdateInput {
	if v, ok := in.Subject.Get(); ok && strings.TrimSpace(v) == "" {
		in.Subject = optional.None[string]()
	}
	if v, ok := in.WeekType.Get(); ok && strings.TrimSpace(string(v)) == "" {
		in.WeekType = optional.None[models.WeekType]()
	}
	if v, ok := in.TeacherIDs.Get(); ok && len(v) == 0 {
		in.TeacherIDs = optional.None[[]uint]()
	}
	if v, ok := in.GroupIDs.Get(); ok && len(v) == 0 {
		in.GroupIDs = optional.None[[]uint]()
	}
	return in
}

// merge вычисляет итоговые значения и признаки изменений. Значение, совпадающее с текущим,
// изменением не считается.
func (in UpdateInput) merge(cur models.Lesson) (plan, error) {
	in = in.withoutBlanks()
	p := plan{
		slot:       cur.Slot(),
		groupIDs:   cur.GroupIDs(),
		teacherIDs: cur.TeacherIDs(),
		columns:    map[string]interface{}{},
	}

	if v, ok := in.Day.Get(); ok {
		if err := checkVar("Day", v, "min=1,max=5"); err != nil {
			return p, err
		}
		if v != cur.Day {
			p.slot.Day = v
			p.columns["day"] = v
		}
	}
	if v, ok := in.Pair.Get(); ok {
		if err := checkVar("Pair", v, "min=1,max=4"); err != nil {
			return p, err
		}
		if v != cur.NumberOfPair {
			p.slot.Pair = v
			p.columns["number_of_pair"] = v
		}
	}
	p.slotChanged = p.slot != cur.Slot()

	if v, ok := in.Subject.Get(); ok {
		v = strings.TrimSpace(v)
		if err := checkVar("Subject", v, "required"); err != nil {
			return p, err
		}
		if v != cur.Subject {
			p.columns["subject"] = v
		}
	}
	if v, ok := in.HoursOfSubject.Get(); ok {
		if err := checkVar("HoursOfSubject", v, "min=1"); err != nil {
			return p, err
		}
		if v != cur.HoursOfSubject {
			p.columns["hours_of_subject"] = v
		}
	}
	if v, ok := in.ConsultationHours.Get(); ok {
		if err := checkVar("ConsultationHours", v, "min=0"); err != nil {
			return p, err
		}
		if v != cur.ConsultationHours {
			p.columns["consultation_hours"] = v
		}
	}
	if v, ok := in.HasConsultation.Get(); ok && v != cur.HasConsultation {
		p.columns["has_consultation"] = v
	}
	if err := checkConsultation(in.HasConsultation.Or(cur.HasConsultation),
		in.ConsultationHours.Or(cur.ConsultationHours)); err != nil {
		return p, err
	}
	if v, ok := in.IsLecture.Get(); ok && v != cur.IsLecture {
		p.columns["is_lecture"] = v
	}
	if v, ok := in.WeekType.Get(); ok {
		if err := checkVar("WeekType", string(v), "oneof=always even odd"); err != nil {
			return p, err
		}
		if v != cur.WeekType() {
			p.columns["is_even_week"] = v.Flag()
		}
	}

	if v, ok := in.TeacherIDs.Get(); ok {
		v = uniqueIDs(v)
		if err := checkVar("TeacherIDs", v, "min=1,dive,min=1"); err != nil {
			return p, err
		}
		p.teachersChanged = !sameSet(v, p.teacherIDs)
		p.teacherIDs = v
	}
	if v, ok := in.GroupIDs.Get(); ok {
		v = uniqueIDs(v)
		if err := checkVar("GroupIDs", v, "min=1,dive,min=1"); err != nil {
			return p, err
		}
		p.groupsChanged = !sameSet(v, p.groupIDs)
		p.groupIDs = v
	}
	return p, nil
}

// uniqueIDs убирает повторы, сохраняя порядок.
func uniqueIDs(ids []uint) []uint {
	if ids == nil {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sameSet(a, b []uint) bool {
	a, b = uniqueIDs(a), uniqueIDs(b)
	if len(a) != len(b) {
		return false
	}
	in := make(map[uint]struct{}, len(a))
	for _, id := range a {
		in[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := in[id]; !ok {
			return false
		}
	}
	return true
}
