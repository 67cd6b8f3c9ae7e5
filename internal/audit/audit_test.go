package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"univ_schedule/internal/models"
	"univ_schedule/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var monFirst = models.Slot{Day: 1, Pair: 1}

type fixture struct {
	db      *gorm.DB
	auditor *Auditor
	group   models.Group
	teacher models.Teacher
	lesson  models.Lesson
}

// setup создаёт согласованное расписание: одно занятие, одна группа, один преподаватель.
func setup(t *testing.T) *fixture {
	db := storagetest.Open(t)
	f := &fixture{
		db:      db,
		auditor: New(db, slog.New(slog.NewTextHandler(io.Discard, nil))),
		group:   storagetest.Group(t, db, "КН-21", 2, "Комп'ютерні науки"),
		teacher: storagetest.Teacher(t, db, "Коваленко О. П."),
	}
	f.lesson = models.Lesson{Day: 1, NumberOfPair: 1, Subject: "Алгоритми", HoursOfSubject: 30}
	require.NoError(t, db.Create(&f.lesson).Error)
	require.NoError(t, db.Create(&models.GroupLesson{GroupID: f.group.ID, LessonID: f.lesson.ID}).Error)
	require.NoError(t, db.Create(&models.TeacherLesson{TeacherID: f.teacher.ID, LessonID: f.lesson.ID}).Error)
	require.NoError(t, db.Model(&models.FreeHour{}).
		Where("teacher_id = ? AND day = ? AND number_of_pair = ?", f.teacher.ID, 1, 1).
		Updates(map[string]interface{}{"is_free": false, "lesson_id": f.lesson.ID}).Error)
	return f
}

func rules(r *Report) []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Rule)
	}
	return out
}

func TestRunOnConsistentSchedule(t *testing.T) {
	f := setup(t)

	report, err := f.auditor.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK(), "нарушения: %v", report.Violations)
	assert.Equal(t, 1, report.CheckedLessons)
	assert.Equal(t, 20, report.CheckedSlots)
}

func TestRunDetectsFlagMismatch(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Model(&models.FreeHour{}).
		Where("teacher_id = ? AND day = ? AND number_of_pair = ?", f.teacher.ID, 1, 1).
		Update("is_free", true).Error)

	report, err := f.auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rules(report), RuleFlagMismatch)
	assert.Contains(t, rules(report), RuleAssignmentNoSlot)
}

func TestRunDetectsReleasedSlotWithAssignment(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Model(&models.FreeHour{}).
		Where("teacher_id = ?", f.teacher.ID).
		Updates(map[string]interface{}{"is_free": true, "lesson_id": nil}).Error)

	report, err := f.auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{RuleAssignmentNoSlot}, rules(report))
}

func TestRunDetectsSlotWithoutAssignment(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Where("lesson_id = ?", f.lesson.ID).Delete(&models.TeacherLesson{}).Error)

	report, err := f.auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rules(report), RuleSlotNotAssigned)
	assert.Contains(t, rules(report), RuleLessonWithoutLinks)
}

func TestRunDetectsMisplacedSlot(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Model(&models.Lesson{}).Where("id = ?", f.lesson.ID).Update("day", 2).Error)

	report, err := f.auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rules(report), RuleSlotMisplaced)
	assert.Contains(t, rules(report), RuleAssignmentNoSlot)
}

func TestRunDetectsDanglingLesson(t *testing.T) {
	f := setup(t)
	other := storagetest.Teacher(t, f.db, "Мельник І. В.", monFirst)
	require.NoError(t, f.db.Model(&models.FreeHour{}).Where("teacher_id = ?", other.ID).
		Updates(map[string]interface{}{"is_free": false, "lesson_id": 999}).Error)

	report, err := f.auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{RuleDanglingLesson}, rules(report))
}

func TestRunDetectsGroupDoubleBooking(t *testing.T) {
	f := setup(t)
	second := models.Lesson{Day: 1, NumberOfPair: 1, Subject: "Фізика", HoursOfSubject: 10}
	require.NoError(t, f.db.Create(&second).Error)
	require.NoError(t, f.db.Create(&models.GroupLesson{GroupID: f.group.ID, LessonID: second.ID}).Error)

	report, err := f.auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rules(report), RuleGroupDoubleBooked)
	assert.Contains(t, rules(report), RuleLessonWithoutLinks)
}
