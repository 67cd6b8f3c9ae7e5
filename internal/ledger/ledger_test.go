package ledger

import (
	"testing"

	"univ_schedule/internal/apperror"
	"univ_schedule/internal/models"
	"univ_schedule/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monFirst = models.Slot{Day: 1, Pair: 1}

func TestOccupyAndRelease(t *testing.T) {
	db := storagetest.Open(t)
	teacher := storagetest.Teacher(t, db, "Коваленко О. П.", monFirst)
	lesson := models.Lesson{Day: 1, NumberOfPair: 1, Subject: "Алгебра", HoursOfSubject: 30}
	require.NoError(t, db.Create(&lesson).Error)

	require.NoError(t, Occupy(db, teacher.ID, monFirst, lesson.ID))

	hour, ok := storagetest.Hour(t, db, teacher.ID, monFirst)
	require.True(t, ok)
	assert.False(t, hour.IsFree)
	require.NotNil(t, hour.LessonID)
	assert.Equal(t, lesson.ID, *hour.LessonID)

	err := Occupy(db, teacher.ID, monFirst, lesson.ID+1)
	assert.Equal(t, apperror.CodeSlotOccupied, apperror.CodeOf(err))

	require.NoError(t, Release(db, teacher.ID, monFirst))
	hour, _ = storagetest.Hour(t, db, teacher.ID, monFirst)
	assert.True(t, hour.IsFree)
	assert.Nil(t, hour.LessonID)

	err = Release(db, teacher.ID, monFirst)
	assert.Equal(t, apperror.CodeSlotAlreadyFree, apperror.CodeOf(err))
}

func TestOccupyMissingSlot(t *testing.T) {
	db := storagetest.Open(t)
	teacher := storagetest.Teacher(t, db, "Коваленко О. П.", monFirst)

	err := Occupy(db, teacher.ID, models.Slot{Day: 2, Pair: 3}, 1)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeSlotNotFound, apperror.CodeOf(err))

	err = Release(db, teacher.ID, models.Slot{Day: 2, Pair: 3})
	assert.Equal(t, apperror.CodeSlotNotFound, apperror.CodeOf(err))
}

func TestFindFreeFilters(t *testing.T) {
	db := storagetest.Open(t)
	a := storagetest.Teacher(t, db, "Коваленко О. П.")
	b := storagetest.Teacher(t, db, "Мельник І. В.", monFirst, models.Slot{Day: 3, Pair: 2})
	require.NoError(t, Occupy(db, a.ID, monFirst, 99))

	all, err := FindFree(db, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 19+2)

	monday, err := FindFree(db, Filter{Day: 1, Pair: 1})
	require.NoError(t, err)
	require.Len(t, monday, 1)
	assert.Equal(t, b.ID, monday[0].TeacherID)

	onlyB, err := FindFree(db, Filter{TeacherID: b.ID})
	require.NoError(t, err)
	assert.Len(t, onlyB, 2)

	everything, err := Find(db, Filter{TeacherID: a.ID})
	require.NoError(t, err)
	assert.Len(t, everything, 20)
}

func TestReleaseLessons(t *testing.T) {
	db := storagetest.Open(t)
	a := storagetest.Teacher(t, db, "Коваленко О. П.")
	b := storagetest.Teacher(t, db, "Мельник І. В.")
	require.NoError(t, Occupy(db, a.ID, monFirst, 10))
	require.NoError(t, Occupy(db, b.ID, monFirst, 10))
	require.NoError(t, Occupy(db, b.ID, models.Slot{Day: 2, Pair: 2}, 11))

	n, err := ReleaseLessons(db, []uint{10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(1), storagetest.Count(t, db, &models.FreeHour{}, "is_free = ?", false))

	n, err = ReleaseLessons(db, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMaterializeDefaultsToWholeGrid(t *testing.T) {
	db := storagetest.Open(t)
	teacher := models.Teacher{FullName: "Бондар Н. С.", Position: "Асистент"}
	require.NoError(t, db.Create(&teacher).Error)

	hours, err := Materialize(db, teacher.ID, nil)
	require.NoError(t, err)
	assert.Len(t, hours, 20)
	for _, h := range hours {
		assert.True(t, h.IsFree)
	}
}

func TestMaterializeExplicitSlots(t *testing.T) {
	db := storagetest.Open(t)
	teacher := models.Teacher{FullName: "Бондар Н. С.", Position: "Асистент"}
	require.NoError(t, db.Create(&teacher).Error)

	hours, err := Materialize(db, teacher.ID, []models.Slot{monFirst, monFirst, {Day: 5, Pair: 4}})
	require.NoError(t, err)
	assert.Len(t, hours, 2)

	_, err = Materialize(db, teacher.ID, []models.Slot{{Day: 6, Pair: 1}})
	assert.Equal(t, apperror.CodeInvalidDay, apperror.CodeOf(err))
	_, err = Materialize(db, teacher.ID, []models.Slot{{Day: 1, Pair: 5}})
	assert.Equal(t, apperror.CodeInvalidPair, apperror.CodeOf(err))
}

func TestAddAndRemoveFree(t *testing.T) {
	db := storagetest.Open(t)
	teacher := storagetest.Teacher(t, db, "Коваленко О. П.", monFirst)

	added, err := AddFree(db, teacher.ID, []models.Slot{monFirst, {Day: 2, Pair: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)
	assert.Equal(t, int64(2), storagetest.Count(t, db, &models.FreeHour{}, "teacher_id = ?", teacher.ID))

	require.NoError(t, Occupy(db, teacher.ID, monFirst, 5))
	_, err = RemoveFree(db, teacher.ID, []models.Slot{monFirst})
	assert.Equal(t, apperror.CodeSlotOccupied, apperror.CodeOf(err))

	removed, err := RemoveFree(db, teacher.ID, []models.Slot{{Day: 2, Pair: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = RemoveFree(db, teacher.ID, []models.Slot{{Day: 4, Pair: 4}})
	assert.Equal(t, apperror.CodeSlotNotFound, apperror.CodeOf(err))
}
