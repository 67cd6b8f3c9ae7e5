// Package conflict проверяет, не нарушит ли запись занятия в слот эксклюзивность
// групп и доступность преподавателей. Проверки только читают данные и выполняются
// в транзакции записи до любых изменений.
package conflict

import (
	"univ_schedule/internal/apperror"
	"univ_schedule/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupBooking - группа, уже занятая в слоте другим занятием.
type GroupBooking struct {
	GroupID  uint
	LessonID uint
}

// CheckGroupConflict ищет среди groupIDs первую группу, у которой в слоте уже есть занятие
// (кроме excludeLessonID). nil - конфликта нет.
func CheckGroupConflict(tx *gorm.DB, slot models.Slot, groupIDs []uint, excludeLessonID uint) (*GroupBooking, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var rows []GroupBooking
	err := tx.Table("group_lessons").
		Select("group_lessons.group_id AS group_id, group_lessons.lesson_id AS lesson_id").
		Joins("JOIN lessons ON lessons.id = group_lessons.lesson_id").
		Where("lessons.day = ? AND lessons.number_of_pair = ?", slot.Day, slot.Pair).
		Where("group_lessons.group_id IN ?", groupIDs).
		Where("lessons.id <> ?", excludeLessonID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	booked := make(map[uint]uint, len(rows))
	for _, r := range rows {
		booked[r.GroupID] = r.LessonID
	}
	for _, id := range groupIDs {
		if lessonID, ok := booked[id]; ok {
			return &GroupBooking{GroupID: id, LessonID: lessonID}, nil
		}
	}
	return nil, nil
}

// CheckTeacherAvailability возвращает первого преподавателя без свободного слота
// в (day, pair); ok == false - все доступны. Слот, занятый самим heldBy, считается
// доступным. Найденные слоты блокируются до конца транзакции.
func CheckTeacherAvailability(tx *gorm.DB, slot models.Slot, teacherIDs []uint, heldBy uint) (uint, bool, error) {
	if len(teacherIDs) == 0 {
		return 0, false, nil
	}
	var free []models.FreeHour
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("day = ? AND number_of_pair = ?", slot.Day, slot.Pair).
		Where("(is_free = ? OR lesson_id = ?)", true, heldBy).
		Where("teacher_id IN ?", teacherIDs).
		Find(&free).Error
	if err != nil {
		return 0, false, err
	}
	available := make(map[uint]struct{}, len(free))
	for _, h := range free {
		available[h.TeacherID] = struct{}{}
	}
	for _, id := range teacherIDs {
		if _, ok := available[id]; !ok {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// LockGroups блокирует строки групп (FOR UPDATE), сериализуя операции над одними и теми же
// группами, и проверяет, что все группы существуют. Порядок результата совпадает с ids.
func LockGroups(tx *gorm.DB, ids []uint) ([]models.Group, error) {
	var groups []models.Group
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id IN ?", ids).Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	ordered := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		g, ok := byID[id]
		if !ok {
			return nil, apperror.NotFound(apperror.CodeGroupNotFound, "группа с id %d не найдена", id)
		}
		ordered = append(ordered, g)
	}
	return ordered, nil
}

// LockTeachers - то же для преподавателей.
func LockTeachers(tx *gorm.DB, ids []uint) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id IN ?", ids).Order("id").Find(&teachers).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Teacher, len(teachers))
	for _, t := range teachers {
		byID[t.ID] = t
	}
	ordered := make([]models.Teacher, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, apperror.NotFound(apperror.CodeTeacherNotFound, "преподаватель с id %d не найден", id)
		}
		ordered = append(ordered, t)
	}
	return ordered, nil
}
