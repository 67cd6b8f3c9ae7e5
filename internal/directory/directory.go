// Package directory управляет справочниками групп и преподавателей. Курс, специальность
// и должность проверяются по config.Reference; слоты доступности нового преподавателя
// создаются через ledger.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"univ_schedule/internal/apperror"
	"univ_schedule/internal/config"
	"univ_schedule/internal/ledger"
	"univ_schedule/internal/models"
	"univ_schedule/internal/optional"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	teacherNameRe = regexp.MustCompile(`^\p{Lu}[\p{L}'’-]+ \p{Lu}\. ?\p{Lu}\.$`)
	groupNameRe   = regexp.MustCompile(`^[\p{L}\d]+(-[\p{L}\d]+)*$`)
)

var validate = newValidator()

// newValidator паникует, если тег не удалось зарегистрировать.
func newValidator() *validator.Validate {
	v := validator.New()
	tags := map[string]*regexp.Regexp{
		"teacher_name": teacherNameRe,
		"group_name":   groupNameRe,
	}
	for tag, re := range tags {
		re := re
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("directory: регистрация тега %s: %v", tag, err))
		}
	}
	return v
}

var fieldCodes = map[string]string{
	"Name":     apperror.CodeInvalidGroupName,
	"FullName": apperror.CodeInvalidTeacherName,
}

type Directory struct {
	db  *gorm.DB
	ref config.Reference
	log *slog.Logger
}

func New(db *gorm.DB, ref config.Reference, log *slog.Logger) *Directory {
	if log == nil {
		log = slog.Default()
	}
	return &Directory{db: db, ref: ref, log: log}
}

type GroupInput struct {
	Name      string `json:"name" validate:"required,max=32,group_name"`
	Course    int    `json:"course"`
	Specialty string `json:"specialty"`
}

type GroupUpdate struct {
	Name      optional.Value[string] `json:"name"`
	Course    optional.Value[int]    `json:"course"`
	Specialty optional.Value[string] `json:"specialty"`
}

type TeacherInput struct {
	FullName  string        `json:"full_name" validate:"required,max=128,teacher_name"`
	Position  string        `json:"position"`
	FreeHours []models.Slot `json:"free_hours"`
}

type TeacherUpdate struct {
	FullName optional.Value[string] `json:"full_name"`
	Position optional.Value[string] `json:"position"`
}

// FreeHoursChange - слоты, которые нужно сделать свободными (Add) или убрать (Remove).
type FreeHoursChange struct {
	Add    []models.Slot `json:"add"`
	Remove []models.Slot `json:"remove"`
}

func (d *Directory) checkGroup(in GroupInput) error {
	if err := validate.Struct(in); err != nil {
		return apperror.FromValidator(err, fieldCodes)
	}
	if !d.ref.ValidCourse(in.Course) {
		return apperror.Validation(apperror.CodeInvalidCourse, "курс %d вне диапазона 1..%d", in.Course, d.ref.MaxCourse)
	}
	if !d.ref.HasSpecialty(in.Specialty) {
		return apperror.Validation(apperror.CodeInvalidSpecialty, "неизвестная специальность %q", in.Specialty)
	}
	return nil
}

func (d *Directory) checkTeacher(in TeacherInput) error {
	if err := validate.Struct(in); err != nil {
		return apperror.FromValidator(err, fieldCodes)
	}
	if !d.ref.HasPosition(in.Position) {
		return apperror.Validation(apperror.CodeInvalidPosition, "неизвестная должность %q", in.Position)
	}
	return nil
}

func (d *Directory) confirm(what string, id uint, answer string) error {
	if d.ref.Confirmed(answer) {
		return nil
	}
	return apperror.Validation(apperror.CodeConfirmationRequired,
		"удаление: %s %d требует подтверждения %q", what, id, d.ref.ConfirmationToken)
}

func (d *Directory) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return apperror.FromStore(d.db.WithContext(ctx).Transaction(fn), op)
}

func (d *Directory) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Specialty = strings.TrimSpace(in.Specialty)
	if err := d.checkGroup(in); err != nil {
		return nil, err
	}

	group := models.Group{Name: in.Name, Course: in.Course, Specialty: in.Specialty}
	err := d.transaction(ctx, "создание группы", func(tx *gorm.DB) error {
		if err := uniqueName(tx, &models.Group{}, "name", in.Name, 0); err != nil {
			return err
		}
		return tx.Create(&group).Error
	})
	if err != nil {
		return nil, err
	}
	d.log.Info("Группа создана", "group_id", group.ID, "name", group.Name)
	return &group, nil
}

func (d *Directory) UpdateGroup(ctx context.Context, id uint, in GroupUpdate) (*models.Group, error) {
	var group models.Group
	err := d.transaction(ctx, "изменение группы", func(tx *gorm.DB) error {
		if err := lockByID(tx, &group, id, apperror.CodeGroupNotFound, "группа с id %d не найдена"); err != nil {
			return err
		}
		merged := GroupInput{
			Name:      strings.TrimSpace(in.Name.Or(group.Name)),
			Course:    in.Course.Or(group.Course),
			Specialty: strings.TrimSpace(in.Specialty.Or(group.Specialty)),
		}
		if err := d.checkGroup(merged); err != nil {
			return err
		}
		if merged.Name != group.Name {
			if err := uniqueName(tx, &models.Group{}, "name", merged.Name, id); err != nil {
				return err
			}
		}
		if merged.Course != group.Course || merged.Specialty != group.Specialty {
			if err := keepsCohort(tx, group, merged); err != nil {
				return err
			}
		}
		group.Name, group.Course, group.Specialty = merged.Name, merged.Course, merged.Specialty
		return tx.Select("name", "course", "specialty").Updates(&group).Error
	})
	if err != nil {
		return nil, err
	}
	d.log.Info("Группа изменена", "group_id", group.ID)
	return &group, nil
}

// DeleteGroup удаляет группу, если она не участвует ни в одном занятии.
func (d *Directory) DeleteGroup(ctx context.Context, id uint, confirmation string) (*models.Group, error) {
	if err := d.confirm("группа", id, confirmation); err != nil {
		return nil, err
	}
	var group models.Group
	err := d.transaction(ctx, "удаление группы", func(tx *gorm.DB) error {
		if err := lockByID(tx, &group, id, apperror.CodeGroupNotFound, "группа с id %d не найдена"); err != nil {
			return err
		}
		var lessons int64
		if err := tx.Model(&models.GroupLesson{}).Where("group_id = ?", id).Count(&lessons).Error; err != nil {
			return err
		}
		if lessons > 0 {
			return apperror.Conflict(apperror.CodeGroupHasLessons,
				"у группы %s есть занятия (%d), сначала удалите их", group.Name, lessons)
		}
		return tx.Delete(&models.Group{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	d.log.Info("Группа удалена", "group_id", id, "name", group.Name)
	return &group, nil
}

// CreateTeacher создаёт преподавателя и его слоты доступности: заданные или все 20 свободными.
func (d *Directory) CreateTeacher(ctx context.Context, in TeacherInput) (*models.Teacher, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Position = strings.TrimSpace(in.Position)
	if err := d.checkTeacher(in); err != nil {
		return nil, err
	}

	teacher := models.Teacher{FullName: in.FullName, Position: in.Position}
	err := d.transaction(ctx, "создание преподавателя", func(tx *gorm.DB) error {
		if err := uniqueName(tx, &models.Teacher{}, "full_name", in.FullName, 0); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&teacher).Error; err != nil {
			return err
		}
		hours, err := ledger.Materialize(tx, teacher.ID, in.FreeHours)
		teacher.FreeHours = hours
		return err
	})
	if err != nil {
		return nil, err
	}
	d.log.Info("Преподаватель создан", "teacher_id", teacher.ID, "full_name", teacher.FullName, "slots", len(teacher.FreeHours))
	return &teacher, nil
}

func (d *Directory) UpdateTeacher(ctx context.Context, id uint, in TeacherUpdate) (*models.Teacher, error) {
	var teacher models.Teacher
	err := d.transaction(ctx, "изменение преподавателя", func(tx *gorm.DB) error {
		if err := lockByID(tx, &teacher, id, apperror.CodeTeacherNotFound, "преподаватель с id %d не найден"); err != nil {
			return err
		}
		merged := TeacherInput{
			FullName: strings.TrimSpace(in.FullName.Or(teacher.FullName)),
			Position: strings.TrimSpace(in.Position.Or(teacher.Position)),
		}
		if err := d.checkTeacher(merged); err != nil {
			return err
		}
		if merged.FullName != teacher.FullName {
			if err := uniqueName(tx, &models.Teacher{}, "full_name", merged.FullName, id); err != nil {
				return err
			}
		}
		teacher.FullName, teacher.Position = merged.FullName, merged.Position
		return tx.Select("full_name", "position").Updates(&teacher).Error
	})
	if err != nil {
		return nil, err
	}
	d.log.Info("Преподаватель изменён", "teacher_id", teacher.ID)
	return &teacher, nil
}

// AdjustFreeHours добавляет и удаляет слоты доступности. Удалить занятый слот нельзя.
func (d *Directory) AdjustFreeHours(ctx context.Context, teacherID uint, change FreeHoursChange) (*models.Teacher, error) {
	var (
		teacher        models.Teacher
		added, removed int64
	)
	err := d.transaction(ctx, "изменение слотов доступности", func(tx *gorm.DB) error {
		if err := lockByID(tx, &teacher, teacherID, apperror.CodeTeacherNotFound, "преподаватель с id %d не найден"); err != nil {
			return err
		}
		var err error
		if removed, err = ledger.RemoveFree(tx, teacherID, change.Remove); err != nil {
			return err
		}
		if added, err = ledger.AddFree(tx, teacherID, change.Add); err != nil {
			return err
		}
		teacher.FreeHours, err = ledger.Find(tx, ledger.Filter{TeacherID: teacherID})
		return err
	})
	if err != nil {
		return nil, err
	}
	d.log.Info("Слоты доступности изменены", "teacher_id", teacherID, "added", added, "removed", removed)
	return &teacher, nil
}

// DeleteTeacher удаляет преподавателя вместе со слотами, если он не ведёт ни одного занятия.
func (d *Directory) DeleteTeacher(ctx context.Context, id uint, confirmation string) (*models.Teacher, error) {
	if err := d.confirm("преподаватель", id, confirmation); err != nil {
		return nil, err
	}
	var teacher models.Teacher
	err := d.transaction(ctx, "удаление преподавателя", func(tx *gorm.DB) error {
		if err := lockByID(tx, &teacher, id, apperror.CodeTeacherNotFound, "преподаватель с id %d не найден"); err != nil {
			return err
		}
		var lessons int64
		if err := tx.Model(&models.TeacherLesson{}).Where("teacher_id = ?", id).Count(&lessons).Error; err != nil {
			return err
		}
		if lessons > 0 {
			return apperror.Conflict(apperror.CodeTeacherHasLessons,
				"преподаватель %s ведёт занятия (%d), сначала удалите или измените их", teacher.FullName, lessons)
		}
		if err := tx.Where("teacher_id = ?", id).Delete(&models.FreeHour{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Teacher{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	d.log.Info("Преподаватель удалён", "teacher_id", id, "full_name", teacher.FullName)
	return &teacher, nil
}

// keepsCohort запрещает менять курс или специальность группы, если после изменения
// она окажется в общем занятии с группами другого потока.
func keepsCohort(tx *gorm.DB, group models.Group, merged GroupInput) error {
	lessonIDs := tx.Model(&models.GroupLesson{}).Select("lesson_id").Where("group_id = ?", group.ID)
	partnerIDs := tx.Model(&models.GroupLesson{}).Select("group_id").Where("lesson_id IN (?)", lessonIDs)
	var partner models.Group
	err := tx.Where("id <> ? AND id IN (?)", group.ID, partnerIDs).
		Where("course <> ? OR specialty <> ?", merged.Course, merged.Specialty).
		Order("id").Take(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return apperror.Conflict(apperror.CodeCohortInUse,
		"группа %s проходит общие занятия с группой %s: курс и специальность должны совпадать", group.Name, partner.Name)
}

func lockByID(tx *gorm.DB, dest interface{}, id uint, code, notFound string) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(code, notFound, id)
	}
	return err
}

// uniqueName возвращает DUPLICATE_NAME, если имя занято другой записью.
func uniqueName(tx *gorm.DB, model interface{}, column, name string, exceptID uint) error {
	var n int64
	if err := tx.Model(model).Where(column+" = ? AND id <> ?", name, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict(apperror.CodeDuplicateName, "имя %q уже занято", name)
	}
	return nil
}
