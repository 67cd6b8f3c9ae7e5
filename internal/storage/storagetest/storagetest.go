// Package storagetest поднимает SQLite в памяти со схемой расписания для тестов.
package storagetest

import (
	"testing"

	"univ_schedule/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open возвращает мигрированную базу; одно соединение, чтобы все запросы видели одну БД.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func Group(t testing.TB, db *gorm.DB, name string, course int, specialty string) models.Group {
	t.Helper()
	g := models.Group{Name: name, Course: course, Specialty: specialty}
	require.NoError(t, db.Create(&g).Error)
	return g
}

// Teacher создаёт преподавателя со свободными слотами; без slots - все 20.
func Teacher(t testing.TB, db *gorm.DB, fullName string, slots ...models.Slot) models.Teacher {
	t.Helper()
	teacher := models.Teacher{FullName: fullName, Position: "Доцент"}
	require.NoError(t, db.Create(&teacher).Error)
	if len(slots) == 0 {
		slots = models.AllSlots()
	}
	for _, s := range slots {
		h := models.FreeHour{TeacherID: teacher.ID, Day: s.Day, NumberOfPair: s.Pair, IsFree: true}
		require.NoError(t, db.Create(&h).Error)
	}
	return teacher
}

// Hour возвращает слот преподавателя; ok == false, если слота нет.
func Hour(t testing.TB, db *gorm.DB, teacherID uint, slot models.Slot) (models.FreeHour, bool) {
	t.Helper()
	var hours []models.FreeHour
	require.NoError(t, db.Where("teacher_id = ? AND day = ? AND number_of_pair = ?", teacherID, slot.Day, slot.Pair).
		Find(&hours).Error)
	if len(hours) == 0 {
		return models.FreeHour{}, false
	}
	return hours[0], true
}

func Count(t testing.TB, db *gorm.DB, model interface{}, query ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
