// Package ledger ведёт учёт доступности преподавателей: по одному FreeHour на
// (преподаватель, день, пара). Собственных транзакций не открывает - все функции
// принимают tx вызывающего.
package ledger

import (
	"errors"

	"univ_schedule/internal/apperror"
	"univ_schedule/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter отбирает слоты; нулевые поля не фильтруют.
type Filter struct {
	Day       int
	Pair      int
	TeacherID uint
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.Day > 0 {
		q = q.Where("day = ?", f.Day)
	}
	if f.Pair > 0 {
		q = q.Where("number_of_pair = ?", f.Pair)
	}
	if f.TeacherID > 0 {
		q = q.Where("teacher_id = ?", f.TeacherID)
	}
	return q
}

// FindFree возвращает свободные слоты, подходящие под фильтр.
func FindFree(tx *gorm.DB, f Filter) ([]models.FreeHour, error) {
	var hours []models.FreeHour
	err := f.apply(tx.Where("is_free = ?", true)).
		Order("teacher_id, day, number_of_pair").
		Find(&hours).Error
	return hours, err
}

// Find возвращает все слоты (свободные и занятые), подходящие под фильтр.
func Find(tx *gorm.DB, f Filter) ([]models.FreeHour, error) {
	var hours []models.FreeHour
	err := f.apply(tx).Order("teacher_id, day, number_of_pair").Find(&hours).Error
	return hours, err
}

func lookup(tx *gorm.DB, teacherID uint, slot models.Slot) (*models.FreeHour, error) {
	var hour models.FreeHour
	err := tx.Where("teacher_id = ? AND day = ? AND number_of_pair = ?", teacherID, slot.Day, slot.Pair).
		First(&hour).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(apperror.CodeSlotNotFound,
			"у преподавателя %d нет слота доступности (%s)", teacherID, slot)
	}
	if err != nil {
		return nil, err
	}
	return &hour, nil
}

// Occupy помечает слот занятым занятием lessonID. Обновление условное (is_free = true),
// поэтому два параллельных занятия не могут занять один слот.
func Occupy(tx *gorm.DB, teacherID uint, slot models.Slot, lessonID uint) error {
	res := tx.Model(&models.FreeHour{}).
		Where("teacher_id = ? AND day = ? AND number_of_pair = ? AND is_free = ?", teacherID, slot.Day, slot.Pair, true).
		Updates(map[string]interface{}{"is_free": false, "lesson_id": lessonID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	hour, err := lookup(tx, teacherID, slot)
	if err != nil {
		return err
	}
	return apperror.Conflict(apperror.CodeSlotOccupied,
		"слот преподавателя %d (%s) уже занят занятием %d", teacherID, slot, derefID(hour.LessonID))
}

// Release освобождает занятый слот и очищает ссылку на занятие.
func Release(tx *gorm.DB, teacherID uint, slot models.Slot) error {
	res := tx.Model(&models.FreeHour{}).
		Where("teacher_id = ? AND day = ? AND number_of_pair = ? AND is_free = ?", teacherID, slot.Day, slot.Pair, false).
		Updates(map[string]interface{}{"is_free": true, "lesson_id": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := lookup(tx, teacherID, slot); err != nil {
		return err
	}
	return apperror.Conflict(apperror.CodeSlotAlreadyFree,
		"слот преподавателя %d (%s) уже свободен", teacherID, slot)
}

// ReleaseLessons освобождает все слоты, ссылающиеся на указанные занятия.
func ReleaseLessons(tx *gorm.DB, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	res := tx.Model(&models.FreeHour{}).
		Where("lesson_id IN ?", lessonIDs).
		Updates(map[string]interface{}{"is_free": true, "lesson_id": nil})
	return res.RowsAffected, res.Error
}

// Materialize создаёт слоты нового преподавателя свободными. Пустой список -
// все 20 слотов сетки.
func Materialize(tx *gorm.DB, teacherID uint, slots []models.Slot) ([]models.FreeHour, error) {
	if len(slots) == 0 {
		slots = models.AllSlots()
	}
	slots, err := normalize(slots)
	if err != nil {
		return nil, err
	}
	hours := make([]models.FreeHour, 0, len(slots))
	for _, s := range slots {
		hours = append(hours, models.FreeHour{TeacherID: teacherID, Day: s.Day, NumberOfPair: s.Pair, IsFree: true})
	}
	if err := tx.Create(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

// AddFree добавляет недостающие свободные слоты; уже существующие не трогает.
func AddFree(tx *gorm.DB, teacherID uint, slots []models.Slot) (int64, error) {
	slots, err := normalize(slots)
	if err != nil || len(slots) == 0 {
		return 0, err
	}
	hours := make([]models.FreeHour, 0, len(slots))
	for _, s := range slots {
		hours = append(hours, models.FreeHour{TeacherID: teacherID, Day: s.Day, NumberOfPair: s.Pair, IsFree: true})
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&hours)
	return res.RowsAffected, res.Error
}

// RemoveFree удаляет слоты доступности. Слот, занятый занятием, удалить нельзя.
func RemoveFree(tx *gorm.DB, teacherID uint, slots []models.Slot) (int64, error) {
	slots, err := normalize(slots)
	if err != nil {
		return 0, err
	}
	var removed int64
	for _, s := range slots {
		hour, err := lookup(tx.Clauses(clause.Locking{Strength: "UPDATE"}), teacherID, s)
		if err != nil {
			return removed, err
		}
		if !hour.IsFree {
			return removed, apperror.Conflict(apperror.CodeSlotOccupied,
				"нельзя удалить слот (%s): он занят занятием %d", s, derefID(hour.LessonID))
		}
		res := tx.Delete(&models.FreeHour{}, hour.ID)
		if res.Error != nil {
			return removed, res.Error
		}
		removed += res.RowsAffected
	}
	return removed, nil
}

func normalize(slots []models.Slot) ([]models.Slot, error) {
	seen := make(map[models.Slot]struct{}, len(slots))
	out := make([]models.Slot, 0, len(slots))
	for _, s := range slots {
		if s.Day < 1 || s.Day > models.MaxDay {
			return nil, apperror.Validation(apperror.CodeInvalidDay, "день %d вне диапазона 1..%d", s.Day, models.MaxDay)
		}
		if s.Pair < 1 || s.Pair > models.MaxPair {
			return nil, apperror.Validation(apperror.CodeInvalidPair, "пара %d вне диапазона 1..%d", s.Pair, models.MaxPair)
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
