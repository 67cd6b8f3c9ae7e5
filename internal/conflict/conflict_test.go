package conflict

import (
	"testing"

	"univ_schedule/internal/apperror"
	"univ_schedule/internal/models"
	"univ_schedule/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var monFirst = models.Slot{Day: 1, Pair: 1}

func bookLesson(t *testing.T, db *gorm.DB, slot models.Slot, groupIDs ...uint) models.Lesson {
	t.Helper()
	lesson := models.Lesson{Day: slot.Day, NumberOfPair: slot.Pair, Subject: "Фізика", HoursOfSubject: 20}
	require.NoError(t, db.Create(&lesson).Error)
	for _, id := range groupIDs {
		require.NoError(t, db.Create(&models.GroupLesson{GroupID: id, LessonID: lesson.ID}).Error)
	}
	return lesson
}

func TestCheckGroupConflict(t *testing.T) {
	db := storagetest.Open(t)
	g1 := storagetest.Group(t, db, "КН-21", 2, "Комп'ютерні науки")
	g2 := storagetest.Group(t, db, "КН-22", 2, "Комп'ютерні науки")
	g3 := storagetest.Group(t, db, "КН-23", 2, "Комп'ютерні науки")
	booked := bookLesson(t, db, monFirst, g2.ID)
	bookLesson(t, db, models.Slot{Day: 1, Pair: 2}, g1.ID)

	found, err := CheckGroupConflict(db, monFirst, []uint{g1.ID, g3.ID}, 0)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = CheckGroupConflict(db, monFirst, []uint{g1.ID, g2.ID, g3.ID}, 0)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, g2.ID, found.GroupID)
	assert.Equal(t, booked.ID, found.LessonID)
}

func TestCheckGroupConflictExcludesUpdatedLesson(t *testing.T) {
	db := storagetest.Open(t)
	g1 := storagetest.Group(t, db, "КН-21", 2, "Комп'ютерні науки")
	lesson := bookLesson(t, db, monFirst, g1.ID)

	found, err := CheckGroupConflict(db, monFirst, []uint{g1.ID}, lesson.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCheckGroupConflictReturnsFirstInRequestOrder(t *testing.T) {
	db := storagetest.Open(t)
	g1 := storagetest.Group(t, db, "КН-21", 2, "Комп'ютерні науки")
	g2 := storagetest.Group(t, db, "КН-22", 2, "Комп'ютерні науки")
	bookLesson(t, db, monFirst, g1.ID, g2.ID)

	found, err := CheckGroupConflict(db, monFirst, []uint{g2.ID, g1.ID}, 0)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, g2.ID, found.GroupID)
}

func TestCheckTeacherAvailability(t *testing.T) {
	db := storagetest.Open(t)
	a := storagetest.Teacher(t, db, "Коваленко О. П.", monFirst)
	b := storagetest.Teacher(t, db, "Мельник І. В.", models.Slot{Day: 2, Pair: 1})
	c := storagetest.Teacher(t, db, "Шевчук А. А.", monFirst)
	require.NoError(t, db.Model(&models.FreeHour{}).Where("teacher_id = ?", c.ID).
		Updates(map[string]interface{}{"is_free": false, "lesson_id": 1}).Error)

	id, missing, err := CheckTeacherAvailability(db, monFirst, []uint{a.ID}, 0)
	require.NoError(t, err)
	assert.False(t, missing)
	assert.Zero(t, id)

	id, missing, err = CheckTeacherAvailability(db, monFirst, []uint{a.ID, b.ID}, 0)
	require.NoError(t, err)
	assert.True(t, missing)
	assert.Equal(t, b.ID, id)

	id, missing, err = CheckTeacherAvailability(db, monFirst, []uint{c.ID, a.ID}, 0)
	require.NoError(t, err)
	assert.True(t, missing)
	assert.Equal(t, c.ID, id)

	id, missing, err = CheckTeacherAvailability(db, monFirst, []uint{c.ID, a.ID}, 1)
	require.NoError(t, err)
	assert.False(t, missing, "слот, занятый самим занятием, доступен")
	assert.Zero(t, id)
}

func TestLockGroupsAndTeachers(t *testing.T) {
	db := storagetest.Open(t)
	g1 := storagetest.Group(t, db, "КН-21", 2, "Комп'ютерні науки")
	g2 := storagetest.Group(t, db, "КН-22", 2, "Комп'ютерні науки")

	groups, err := LockGroups(db, []uint{g2.ID, g1.ID})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "КН-22", groups[0].Name)

	_, err = LockGroups(db, []uint{g1.ID, 404})
	assert.Equal(t, apperror.CodeGroupNotFound, apperror.CodeOf(err))
	assert.ErrorContains(t, err, "404")

	teacher := storagetest.Teacher(t, db, "Коваленко О. П.", monFirst)
	teachers, err := LockTeachers(db, []uint{teacher.ID})
	require.NoError(t, err)
	assert.Equal(t, teacher.FullName, teachers[0].FullName)

	_, err = LockTeachers(db, []uint{77})
	assert.Equal(t, apperror.CodeTeacherNotFound, apperror.CodeOf(err))
}
