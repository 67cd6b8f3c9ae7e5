// Package query - выборки расписания только для чтения.
package query

import (
	"context"
	"errors"
	"strings"
	"time"

	"univ_schedule/internal/apperror"
	"univ_schedule/internal/ledger"
	"univ_schedule/internal/models"
	"univ_schedule/internal/parity"

	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	parity parity.Calculator
}

func New(db *gorm.DB, calc parity.Calculator) *Service {
	return &Service{db: db, parity: calc}
}

// LessonFilter: 0 - фильтр не применяется.
type LessonFilter struct {
	Day  int `form:"day"`
	Pair int `form:"pair"`
}

// DaySchedule - занятия группы в конкретную дату с учётом чётности недели.
type DaySchedule struct {
	Group    models.Group    `json:"group"`
	Date     string          `json:"date"`
	Day      int             `json:"day"`
	EvenWeek bool            `json:"even_week"`
	Lessons  []models.Lesson `json:"lessons"`
}

// WeekParity описывает неделю, в которую попадает дата.
type WeekParity struct {
	Date     string          `json:"date"`
	Monday   string          `json:"monday"`
	EvenWeek bool            `json:"even_week"`
	WeekType models.WeekType `json:"week_type"`
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (s *Service) lessons(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("GroupLessons", byID).
		Preload("GroupLessons.Group").
		Preload("TeacherLessons", byID).
		Preload("TeacherLessons.Teacher").
		Order("day, number_of_pair, id")
}

func checkBounds(day, pair int) error {
	if day < 0 || day > models.MaxDay {
		return apperror.Validation(apperror.CodeInvalidDay, "день %d вне диапазона 0..%d", day, models.MaxDay)
	}
	if pair < 0 || pair > models.MaxPair {
		return apperror.Validation(apperror.CodeInvalidPair, "пара %d вне диапазона 0..%d", pair, models.MaxPair)
	}
	return nil
}

func (s *Service) Lessons(ctx context.Context, f LessonFilter) ([]models.Lesson, error) {
	if err := checkBounds(f.Day, f.Pair); err != nil {
		return nil, err
	}
	q := s.lessons(ctx)
	if f.Day > 0 {
		q = q.Where("day = ?", f.Day)
	}
	if f.Pair > 0 {
		q = q.Where("number_of_pair = ?", f.Pair)
	}
	var lessons []models.Lesson
	if err := q.Find(&lessons).Error; err != nil {
		return nil, apperror.FromStore(err, "выборка занятий")
	}
	return lessons, nil
}

func (s *Service) LessonByID(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.lessons(ctx).First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(apperror.CodeLessonNotFound, "занятие с id %d не найдено", id)
	}
	if err != nil {
		return nil, apperror.FromStore(err, "выборка занятия")
	}
	return &lesson, nil
}

// LessonsByTeacher возвращает занятия преподавателя с точным ФИО.
func (s *Service) LessonsByTeacher(ctx context.Context, fullName string) ([]models.Lesson, error) {
	teacher, err := s.teacherByName(ctx, fullName)
	if err != nil {
		return nil, err
	}
	var lessons []models.Lesson
	err = s.lessons(ctx).
		Where("id IN (?)", s.db.Model(&models.TeacherLesson{}).Select("lesson_id").Where("teacher_id = ?", teacher.ID)).
		Find(&lessons).Error
	if err != nil {
		return nil, apperror.FromStore(err, "выборка занятий преподавателя")
	}
	return lessons, nil
}

// LessonsByGroup возвращает занятия группы с точным названием.
func (s *Service) LessonsByGroup(ctx context.Context, name string) ([]models.Lesson, error) {
	group, err := s.groupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.groupLessons(ctx, group.ID, 0, 0)
}

// FindLessonByTimeAndGroup ищет занятие группы в слоте - обычно перед удалением.
func (s *Service) FindLessonByTimeAndGroup(ctx context.Context, groupName string, slot models.Slot) (*models.Lesson, error) {
	if !slot.Valid() {
		return nil, checkSlot(slot)
	}
	group, err := s.groupByName(ctx, groupName)
	if err != nil {
		return nil, err
	}
	lessons, err := s.groupLessons(ctx, group.ID, slot.Day, slot.Pair)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, apperror.NotFound(apperror.CodeLessonNotFound, "у группы %s нет занятия (%s)", group.Name, slot)
	}
	return &lessons[0], nil
}

func checkSlot(slot models.Slot) error {
	if slot.Day < 1 || slot.Day > models.MaxDay {
		return apperror.Validation(apperror.CodeInvalidDay, "день %d вне диапазона 1..%d", slot.Day, models.MaxDay)
	}
	return apperror.Validation(apperror.CodeInvalidPair, "пара %d вне диапазона 1..%d", slot.Pair, models.MaxPair)
}

func (s *Service) groupLessons(ctx context.Context, groupID uint, day, pair int) ([]models.Lesson, error) {
	q := s.lessons(ctx).
		Where("id IN (?)", s.db.Model(&models.GroupLesson{}).Select("lesson_id").Where("group_id = ?", groupID))
	if day > 0 {
		q = q.Where("day = ?", day)
	}
	if pair > 0 {
		q = q.Where("number_of_pair = ?", pair)
	}
	var lessons []models.Lesson
	if err := q.Find(&lessons).Error; err != nil {
		return nil, apperror.FromStore(err, "выборка занятий группы")
	}
	return lessons, nil
}

// GroupScheduleForDate возвращает занятия группы в день недели даты, оставляя только те,
// что проходят в неделю её чётности. Для субботы и воскресенья список пуст.
func (s *Service) GroupScheduleForDate(ctx context.Context, groupName string, date time.Time) (*DaySchedule, error) {
	group, err := s.groupByName(ctx, groupName)
	if err != nil {
		return nil, err
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	day := (int(date.Weekday())+6)%7 + 1
	out := &DaySchedule{
		Group:    *group,
		Date:     date.Format(time.DateOnly),
		Day:      day,
		EvenWeek: s.parity.IsEvenWeek(date),
		Lessons:  []models.Lesson{},
	}
	if day > models.MaxDay {
		return out, nil
	}
	lessons, err := s.groupLessons(ctx, group.ID, day, 0)
	if err != nil {
		return nil, err
	}
	for _, l := range lessons {
		if l.WeekType().Matches(out.EvenWeek) {
			out.Lessons = append(out.Lessons, l)
		}
	}
	return out, nil
}

func (s *Service) WeekParity(date time.Time) WeekParity {
	even := s.parity.IsEvenWeek(date)
	wt := models.WeekOdd
	if even {
		wt = models.WeekEven
	}
	return WeekParity{
		Date:     date.Format(time.DateOnly),
		Monday:   parity.MondayOf(date).Format(time.DateOnly),
		EvenWeek: even,
		WeekType: wt,
	}
}

// Groups возвращает группы; непустой name отбирает по вхождению подстроки.
func (s *Service) Groups(ctx context.Context, name string) ([]models.Group, error) {
	q := s.db.WithContext(ctx).Order("name")
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	var groups []models.Group
	if err := q.Find(&groups).Error; err != nil {
		return nil, apperror.FromStore(err, "выборка групп")
	}
	return groups, nil
}

// Teachers возвращает преподавателей; непустой name отбирает по вхождению подстроки.
func (s *Service) Teachers(ctx context.Context, name string) ([]models.Teacher, error) {
	q := s.db.WithContext(ctx).Order("full_name")
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("full_name LIKE ?", "%"+name+"%")
	}
	var teachers []models.Teacher
	if err := q.Find(&teachers).Error; err != nil {
		return nil, apperror.FromStore(err, "выборка преподавателей")
	}
	return teachers, nil
}

// FreeHours возвращает слоты доступности; onlyFree оставляет только свободные.
func (s *Service) FreeHours(ctx context.Context, f ledger.Filter, onlyFree bool) ([]models.FreeHour, error) {
	if err := checkBounds(f.Day, f.Pair); err != nil {
		return nil, err
	}
	find := ledger.Find
	if onlyFree {
		find = ledger.FindFree
	}
	hours, err := find(s.db.WithContext(ctx), f)
	if err != nil {
		return nil, apperror.FromStore(err, "выборка слотов")
	}
	return hours, nil
}

// AvailableTeachers возвращает преподавателей, свободных в (day, pair), вместе с их
// свободными слотами, отфильтрованными так же. 0 - любой день или пара.
func (s *Service) AvailableTeachers(ctx context.Context, day, pair int) ([]models.Teacher, error) {
	hours, err := s.FreeHours(ctx, ledger.Filter{Day: day, Pair: pair}, true)
	if err != nil {
		return nil, err
	}
	if len(hours) == 0 {
		return []models.Teacher{}, nil
	}
	byTeacher := make(map[uint][]models.FreeHour)
	ids := make([]uint, 0)
	for _, h := range hours {
		if _, ok := byTeacher[h.TeacherID]; !ok {
			ids = append(ids, h.TeacherID)
		}
		byTeacher[h.TeacherID] = append(byTeacher[h.TeacherID], h)
	}
	var teachers []models.Teacher
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("full_name").Find(&teachers).Error; err != nil {
		return nil, apperror.FromStore(err, "выборка свободных преподавателей")
	}
	for i := range teachers {
		teachers[i].FreeHours = byTeacher[teachers[i].ID]
	}
	return teachers, nil
}

func (s *Service) groupByName(ctx context.Context, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	var group models.Group
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(apperror.CodeGroupNotFound, "группа %q не найдена", name)
	}
	if err != nil {
		return nil, apperror.FromStore(err, "поиск группы")
	}
	return &group, nil
}

func (s *Service) teacherByName(ctx context.Context, fullName string) (*models.Teacher, error) {
	fullName = strings.TrimSpace(fullName)
	var teacher models.Teacher
	err := s.db.WithContext(ctx).Where("full_name = ?", fullName).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(apperror.CodeTeacherNotFound, "преподаватель %q не найден", fullName)
	}
	if err != nil {
		return nil, apperror.FromStore(err, "поиск преподавателя")
	}
	return &teacher, nil
}
