// Package engine создаёт, изменяет и удаляет занятия, поддерживая согласованность
// связей с группами и преподавателями и учёта доступности. Каждая операция - одна
// транзакция: проверки выполняются до первой записи, любая ошибка откатывает всё.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"univ_schedule/internal/apperror"
	"univ_schedule/internal/config"
	"univ_schedule/internal/conflict"
	"univ_schedule/internal/events"
	"univ_schedule/internal/ledger"
	"univ_schedule/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Engine struct {
	db     *gorm.DB
	ref    config.Reference
	txOpts *sql.TxOptions
	log    *slog.Logger
	events events.Publisher
}

type Option func(*Engine)

// WithTxOptions задаёт уровень изоляции транзакций; nil - настройки драйвера.
func WithTxOptions(opts *sql.TxOptions) Option {
	return func(e *Engine) { e.txOpts = opts }
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.events = p }
}

func New(db *gorm.DB, ref config.Reference, opts ...Option) *Engine {
	e := &Engine{
		db:     db,
		ref:    ref,
		log:    slog.Default(),
		events: events.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BulkFilter отбирает занятия для массового удаления; 0 - фильтр не применяется.
type BulkFilter struct {
	Course int `json:"course" form:"course"`
	Day    int `json:"day" form:"day"`
}

// Create записывает новое занятие и занимает слоты всех его преподавателей.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*models.Lesson, error) {
	in.normalize()
	if err := in.check(); err != nil {
		return nil, e.reject("create", err)
	}
	slot := in.slot()

	var lesson *models.Lesson
	err := e.transaction(ctx, "создание занятия", func(tx *gorm.DB) error {
		groups, err := conflict.LockGroups(tx, in.GroupIDs)
		if err != nil {
			return err
		}
		if err := sameCohort(groups); err != nil {
			return err
		}
		teachers, err := conflict.LockTeachers(tx, in.TeacherIDs)
		if err != nil {
			return err
		}
		if err := checkGroups(tx, slot, groups, 0); err != nil {
			return err
		}
		if err := checkTeachers(tx, slot, teachers, 0); err != nil {
			return err
		}

		row := models.Lesson{
			Day:               in.Day,
			NumberOfPair:      in.Pair,
			Subject:           in.Subject,
			HoursOfSubject:    in.HoursOfSubject,
			IsLecture:         in.IsLecture,
			HasConsultation:   in.HasConsultation,
			ConsultationHours: in.ConsultationHours,
			IsEvenWeek:        in.WeekType.Flag(),
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		if err := linkGroups(tx, row.ID, in.GroupIDs); err != nil {
			return err
		}
		if err := linkTeachers(tx, row.ID, in.TeacherIDs); err != nil {
			return err
		}
		if err := occupy(tx, in.TeacherIDs, slot, row.ID); err != nil {
			return err
		}
		lesson, err = loadLesson(tx, row.ID)
		return err
	})
	if err != nil {
		return nil, e.reject("create", err)
	}

	e.log.Info("Занятие создано", "lesson_id", lesson.ID, "day", lesson.Day, "pair", lesson.NumberOfPair)
	e.publish(ctx, events.LessonEvent{
		Type:      events.LessonCreated,
		LessonIDs: []uint{lesson.ID},
		Day:       lesson.Day,
		Pair:      lesson.NumberOfPair,
		GroupIDs:  lesson.GroupIDs(),
	})
	return lesson, nil
}

// Update применяет заданные поля к занятию. Если ни одно поле не отличается от текущего,
// занятие возвращается без изменений.
func (e *Engine) Update(ctx context.Context, id uint, in UpdateInput) (*models.Lesson, error) {
	var (
		lesson    *models.Lesson
		before    []uint
		didChange bool
	)
	in = in.withoutBlanks()
	err := e.transaction(ctx, "изменение занятия", func(tx *gorm.DB) error {
		cur, err := loadLesson(tx, id)
		if err != nil {
			return err
		}
		p, err := in.merge(*cur)
		if err != nil {
			return err
		}

		var groups []models.Group
		if in.GroupIDs.IsSet() {
			if groups, err = conflict.LockGroups(tx, p.groupIDs); err != nil {
				return err
			}
			if err := sameCohort(groups); err != nil {
				return err
			}
		}
		if !p.changed() {
			lesson = cur
			return nil
		}

		if p.slotChanged || p.groupsChanged {
			if groups == nil {
				if groups, err = conflict.LockGroups(tx, p.groupIDs); err != nil {
					return err
				}
			}
			if err := checkGroups(tx, p.slot, groups, cur.ID); err != nil {
				return err
			}
		}
		moveSlots := p.slotChanged || p.teachersChanged
		if moveSlots {
			teachers, err := conflict.LockTeachers(tx, p.teacherIDs)
			if err != nil {
				return err
			}
			if err := checkTeachers(tx, p.slot, teachers, cur.ID); err != nil {
				return err
			}
		}

		if moveSlots {
			for _, teacherID := range cur.TeacherIDs() {
				if err := ledger.Release(tx, teacherID, cur.Slot()); err != nil {
					return err
				}
			}
		}
		if len(p.columns) > 0 {
			if err := tx.Model(&models.Lesson{ID: cur.ID}).Updates(p.columns).Error; err != nil {
				return err
			}
		}
		if p.groupsChanged {
			if err := tx.Where("lesson_id = ?", cur.ID).Delete(&models.GroupLesson{}).Error; err != nil {
				return err
			}
			if err := linkGroups(tx, cur.ID, p.groupIDs); err != nil {
				return err
			}
		}
		if p.teachersChanged {
			if err := tx.Where("lesson_id = ?", cur.ID).Delete(&models.TeacherLesson{}).Error; err != nil {
				return err
			}
			if err := linkTeachers(tx, cur.ID, p.teacherIDs); err != nil {
				return err
			}
		}
		if moveSlots {
			if err := occupy(tx, p.teacherIDs, p.slot, cur.ID); err != nil {
				return err
			}
		}

		before = cur.GroupIDs()
		didChange = true
		lesson, err = loadLesson(tx, cur.ID)
		return err
	})
	if err != nil {
		return nil, e.reject("update", err)
	}
	if !didChange {
		e.log.Debug("Изменение занятия без изменений", "lesson_id", id)
		return lesson, nil
	}

	e.log.Info("Занятие изменено", "lesson_id", lesson.ID, "day", lesson.Day, "pair", lesson.NumberOfPair)
	e.publish(ctx, events.LessonEvent{
		Type:      events.LessonUpdated,
		LessonIDs: []uint{lesson.ID},
		Day:       lesson.Day,
		Pair:      lesson.NumberOfPair,
		GroupIDs:  uniqueIDs(append(before, lesson.GroupIDs()...)),
	})
	return lesson, nil
}

// Delete удаляет занятие после подтверждения и возвращает его последнее состояние.
func (e *Engine) Delete(ctx context.Context, id uint, confirmation string) (*models.Lesson, error) {
	if !e.ref.Confirmed(confirmation) {
		return nil, e.reject("delete", apperror.Validation(apperror.CodeConfirmationRequired,
			"удаление занятия %d требует подтверждения %q", id, e.ref.ConfirmationToken))
	}

	var lesson *models.Lesson
	err := e.transaction(ctx, "удаление занятия", func(tx *gorm.DB) error {
		var err error
		if lesson, err = loadLesson(tx, id); err != nil {
			return err
		}
		return removeLessons(tx, []uint{id})
	})
	if err != nil {
		return nil, e.reject("delete", err)
	}

	e.log.Info("Занятие удалено", "lesson_id", lesson.ID, "day", lesson.Day, "pair", lesson.NumberOfPair)
	e.publish(ctx, events.LessonEvent{
		Type:      events.LessonDeleted,
		LessonIDs: []uint{lesson.ID},
		Day:       lesson.Day,
		Pair:      lesson.NumberOfPair,
		GroupIDs:  lesson.GroupIDs(),
	})
	return lesson, nil
}

// BulkDelete удаляет все занятия, подходящие под фильтр, и возвращает их количество.
// Фильтр по курсу отбирает занятия, у которых есть хотя бы одна группа этого курса.
func (e *Engine) BulkDelete(ctx context.Context, f BulkFilter) (int64, error) {
	if f.Course < 0 || f.Course > e.ref.MaxCourse {
		return 0, e.reject("bulk_delete", apperror.Validation(apperror.CodeInvalidCourse,
			"курс %d вне диапазона 0..%d", f.Course, e.ref.MaxCourse))
	}
	if f.Day < 0 || f.Day > models.MaxDay {
		return 0, e.reject("bulk_delete", apperror.Validation(apperror.CodeInvalidDay,
			"день %d вне диапазона 0..%d", f.Day, models.MaxDay))
	}

	var (
		ids    []uint
		groups []uint
	)
	err := e.transaction(ctx, "массовое удаление занятий", func(tx *gorm.DB) error {
		q := tx.Model(&models.Lesson{}).Clauses(clause.Locking{Strength: "UPDATE"})
		if f.Day > 0 {
			q = q.Where("day = ?", f.Day)
		}
		if f.Course > 0 {
			q = q.Where("id IN (?)", tx.Table("group_lessons").
				Select("group_lessons.lesson_id").
				Joins("JOIN groups ON groups.id = group_lessons.group_id").
				Where("groups.course = ?", f.Course))
		}
		if err := q.Order("id").Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return apperror.NotFound(apperror.CodeNothingMatched,
				"нет занятий для удаления (курс %d, день %d)", f.Course, f.Day)
		}
		if err := tx.Model(&models.GroupLesson{}).Where("lesson_id IN ?", ids).
			Distinct().Pluck("group_id", &groups).Error; err != nil {
			return err
		}
		return removeLessons(tx, ids)
	})
	if err != nil {
		return 0, e.reject("bulk_delete", err)
	}

	e.log.Info("Занятия удалены", "count", len(ids), "course", f.Course, "day", f.Day)
	e.publish(ctx, events.LessonEvent{
		Type:      events.LessonsBulkDeleted,
		LessonIDs: ids,
		Day:       f.Day,
		GroupIDs:  groups,
	})
	return int64(len(ids)), nil
}

func (e *Engine) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if e.txOpts != nil {
		opts = append(opts, e.txOpts)
	}
	return apperror.FromStore(e.db.WithContext(ctx).Transaction(fn, opts...), op)
}

func (e *Engine) reject(op string, err error) error {
	if apperror.KindOf(err) == apperror.KindTransaction {
		e.log.Error("Ошибка транзакции", "op", op, "error", err)
	} else {
		e.log.Warn("Операция отклонена", "op", op, "code", apperror.CodeOf(err), "error", err)
	}
	return err
}

func (e *Engine) publish(ctx context.Context, ev events.LessonEvent) {
	ev.At = time.Now().UTC()
	if err := e.events.Publish(ctx, ev); err != nil {
		e.log.Warn("Не удалось опубликовать событие", "event", ev.Type, "error", err)
	}
}

func loadLesson(tx *gorm.DB, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("GroupLessons", byID).
		Preload("GroupLessons.Group").
		Preload("TeacherLessons", byID).
		Preload("TeacherLessons.Teacher").
		First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(apperror.CodeLessonNotFound, "занятие с id %d не найдено", id)
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// sameCohort требует одинаковых курса и специальности у всех групп занятия.
func sameCohort(groups []models.Group) error {
	for _, g := range groups[1:] {
		if g.Course != groups[0].Course || g.Specialty != groups[0].Specialty {
			return apperror.Validation(apperror.CodeMixedCohort,
				"группы %s и %s относятся к разным курсам или специальностям", groups[0].Name, g.Name)
		}
	}
	return nil
}

func checkGroups(tx *gorm.DB, slot models.Slot, groups []models.Group, lessonID uint) error {
	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	booking, err := conflict.CheckGroupConflict(tx, slot, ids, lessonID)
	if err != nil || booking == nil {
		return err
	}
	for _, g := range groups {
		if g.ID == booking.GroupID {
			return apperror.Conflict(apperror.CodeGroupConflict,
				"у группы %s уже есть занятие %d (%s)", g.Name, booking.LessonID, slot)
		}
	}
	return apperror.Conflict(apperror.CodeGroupConflict,
		"у группы %d уже есть занятие %d (%s)", booking.GroupID, booking.LessonID, slot)
}

func checkTeachers(tx *gorm.DB, slot models.Slot, teachers []models.Teacher, lessonID uint) error {
	ids := make([]uint, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.ID)
	}
	missing, found, err := conflict.CheckTeacherAvailability(tx, slot, ids, lessonID)
	if err != nil || !found {
		return err
	}
	for _, t := range teachers {
		if t.ID == missing {
			return apperror.Conflict(apperror.CodeTeacherUnavailable,
				"преподаватель %s не свободен (%s)", t.FullName, slot)
		}
	}
	return apperror.Conflict(apperror.CodeTeacherUnavailable,
		"преподаватель %d не свободен (%s)", missing, slot)
}

func linkGroups(tx *gorm.DB, lessonID uint, groupIDs []uint) error {
	rows := make([]models.GroupLesson, 0, len(groupIDs))
	for _, id := range groupIDs {
		rows = append(rows, models.GroupLesson{GroupID: id, LessonID: lessonID})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func linkTeachers(tx *gorm.DB, lessonID uint, teacherIDs []uint) error {
	rows := make([]models.TeacherLesson, 0, len(teacherIDs))
	for _, id := range teacherIDs {
		rows = append(rows, models.TeacherLesson{TeacherID: id, LessonID: lessonID})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func occupy(tx *gorm.DB, teacherIDs []uint, slot models.Slot, lessonID uint) error {
	for _, id := range teacherIDs {
		if err := ledger.Occupy(tx, id, slot, lessonID); err != nil {
			return err
		}
	}
	return nil
}

// removeLessons освобождает слоты занятий, удаляет их связи и сами занятия.
func removeLessons(tx *gorm.DB, ids []uint) error {
	if _, err := ledger.ReleaseLessons(tx, ids); err != nil {
		return err
	}
	if err := tx.Where("lesson_id IN ?", ids).Delete(&models.TeacherLesson{}).Error; err != nil {
		return err
	}
	if err := tx.Where("lesson_id IN ?", ids).Delete(&models.GroupLesson{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Lesson{}).Error
}
