// Package audit сверяет учёт доступности преподавателей с занятиями и их связями.
// Аудит только читает данные и ничего не исправляет.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"univ_schedule/internal/models"

	"gorm.io/gorm"
)

// Правила согласованности.
const (
	RuleFlagMismatch       = "flag_mismatch"
	RuleDanglingLesson     = "dangling_lesson"
	RuleSlotNotAssigned    = "slot_not_assigned"
	RuleSlotMisplaced      = "slot_misplaced"
	RuleAssignmentNoSlot   = "assignment_without_slot"
	RuleGroupDoubleBooked  = "group_double_booked"
	RuleLessonWithoutLinks = "lesson_without_links"
)

type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type Report struct {
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
	CheckedLessons int         `json:"checked_lessons"`
	CheckedSlots   int         `json:"checked_slots"`
	Violations     []Violation `json:"violations"`
}

func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(rule, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{Rule: rule, Message: fmt.Sprintf(format, args...)})
}

type Auditor struct {
	db  *gorm.DB
	log *slog.Logger
}

func New(db *gorm.DB, log *slog.Logger) *Auditor {
	if log == nil {
		log = slog.Default()
	}
	return &Auditor{db: db, log: log}
}

type snapshot struct {
	lessons  map[uint]models.Lesson
	hours    []models.FreeHour
	teachers []models.TeacherLesson
	groups   []models.GroupLesson
}

// Run читает согласованный срез данных в одной транзакции и проверяет все правила.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now()}

	var snap snapshot
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lessons []models.Lesson
		if err := tx.Find(&lessons).Error; err != nil {
			return err
		}
		snap.lessons = make(map[uint]models.Lesson, len(lessons))
		for _, l := range lessons {
			snap.lessons[l.ID] = l
		}
		if err := tx.Order("teacher_id, day, number_of_pair").Find(&snap.hours).Error; err != nil {
			return err
		}
		if err := tx.Order("id").Find(&snap.teachers).Error; err != nil {
			return err
		}
		return tx.Order("id").Find(&snap.groups).Error
	})
	if err != nil {
		return nil, fmt.Errorf("чтение данных для аудита: %w", err)
	}

	checkSlots(report, &snap)
	checkAssignments(report, &snap)
	checkGroups(report, &snap)

	report.CheckedLessons = len(snap.lessons)
	report.CheckedSlots = len(snap.hours)
	report.FinishedAt = time.Now()

	if report.OK() {
		a.log.Info("Аудит расписания: нарушений нет", "lessons", report.CheckedLessons, "slots", report.CheckedSlots)
	} else {
		a.log.Warn("Аудит расписания: найдены нарушения", "count", len(report.Violations))
		for _, v := range report.Violations {
			a.log.Warn("Нарушение", "rule", v.Rule, "message", v.Message)
		}
	}
	return report, nil
}

type assignment struct {
	teacherID uint
	lessonID  uint
}

// checkSlots: занятый слот ссылается на существующее занятие в том же слоте,
// у которого есть связь с этим преподавателем.
func checkSlots(r *Report, s *snapshot) {
	assigned := make(map[assignment]struct{}, len(s.teachers))
	for _, tl := range s.teachers {
		assigned[assignment{tl.TeacherID, tl.LessonID}] = struct{}{}
	}
	for _, h := range s.hours {
		if h.IsFree != (h.LessonID == nil) {
			r.add(RuleFlagMismatch, "слот %d преподавателя %d (%s): is_free=%t, lesson_id=%s",
				h.ID, h.TeacherID, h.Slot(), h.IsFree, lessonRef(h.LessonID))
			continue
		}
		if h.LessonID == nil {
			continue
		}
		lesson, ok := s.lessons[*h.LessonID]
		if !ok {
			r.add(RuleDanglingLesson, "слот %d преподавателя %d ссылается на несуществующее занятие %d",
				h.ID, h.TeacherID, *h.LessonID)
			continue
		}
		if lesson.Slot() != h.Slot() {
			r.add(RuleSlotMisplaced, "слот %d преподавателя %d (%s) занят занятием %d в другом слоте (%s)",
				h.ID, h.TeacherID, h.Slot(), lesson.ID, lesson.Slot())
		}
		if _, ok := assigned[assignment{h.TeacherID, lesson.ID}]; !ok {
			r.add(RuleSlotNotAssigned, "слот %d занят занятием %d, но преподаватель %d не назначен на него",
				h.ID, lesson.ID, h.TeacherID)
		}
	}
}

// checkAssignments: у каждого назначения преподавателя есть занятый этим занятием слот,
// у каждого занятия есть хотя бы одна группа и один преподаватель.
func checkAssignments(r *Report, s *snapshot) {
	type key struct {
		teacherID uint
		slot      models.Slot
	}
	held := make(map[key]uint, len(s.hours))
	for _, h := range s.hours {
		if !h.IsFree && h.LessonID != nil {
			held[key{h.TeacherID, h.Slot()}] = *h.LessonID
		}
	}
	teachersOf := make(map[uint]int, len(s.lessons))
	for _, tl := range s.teachers {
		teachersOf[tl.LessonID]++
		lesson, ok := s.lessons[tl.LessonID]
		if !ok {
			r.add(RuleDanglingLesson, "назначение %d ссылается на несуществующее занятие %d", tl.ID, tl.LessonID)
			continue
		}
		if held[key{tl.TeacherID, lesson.Slot()}] != lesson.ID {
			r.add(RuleAssignmentNoSlot, "преподаватель %d назначен на занятие %d (%s), но слот не занят этим занятием",
				tl.TeacherID, lesson.ID, lesson.Slot())
		}
	}
	groupsOf := make(map[uint]int, len(s.lessons))
	for _, gl := range s.groups {
		groupsOf[gl.LessonID]++
	}
	for id := range s.lessons {
		if teachersOf[id] == 0 || groupsOf[id] == 0 {
			r.add(RuleLessonWithoutLinks, "у занятия %d групп: %d, преподавателей: %d", id, groupsOf[id], teachersOf[id])
		}
	}
}

// checkGroups: у группы не больше одного занятия в слоте.
func checkGroups(r *Report, s *snapshot) {
	type key struct {
		groupID uint
		slot    models.Slot
	}
	seen := make(map[key]uint, len(s.groups))
	for _, gl := range s.groups {
		lesson, ok := s.lessons[gl.LessonID]
		if !ok {
			r.add(RuleDanglingLesson, "связь группы %d ссылается на несуществующее занятие %d", gl.GroupID, gl.LessonID)
			continue
		}
		k := key{gl.GroupID, lesson.Slot()}
		if other, ok := seen[k]; ok && other != lesson.ID {
			r.add(RuleGroupDoubleBooked, "у группы %d два занятия (%d и %d) в слоте (%s)",
				gl.GroupID, other, lesson.ID, lesson.Slot())
			continue
		}
		seen[k] = lesson.ID
	}
}

func lessonRef(id *uint) string {
	if id == nil {
		return "null"
	}
	return fmt.Sprint(*id)
}
