// Package apperror описывает ошибки движка расписания: ошибки валидации, конфликты,
// отсутствующие сущности и сбои транзакций хранилища.
package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindTransaction:
		return "transaction"
	}
	return "unknown"
}

// Коды ошибок для программной обработки на стороне клиента.
const (
	CodeInvalidDay               = "INVALID_DAY"
	CodeInvalidPair              = "INVALID_PAIR"
	CodeInvalidSubject           = "INVALID_SUBJECT"
	CodeInvalidHours             = "INVALID_HOURS"
	CodeInvalidConsultationHours = "INVALID_CONSULTATION_HOURS"
	CodeInvalidWeekType          = "INVALID_WEEK_TYPE"
	CodeEmptyTeachers            = "EMPTY_TEACHERS"
	CodeEmptyGroups              = "EMPTY_GROUPS"
	CodeInvalidCourse            = "INVALID_COURSE"
	CodeInvalidSpecialty         = "INVALID_SPECIALTY"
	CodeInvalidPosition          = "INVALID_POSITION"
	CodeInvalidTeacherName       = "INVALID_TEACHER_NAME"
	CodeInvalidGroupName         = "INVALID_GROUP_NAME"
	CodeMixedCohort              = "MIXED_COHORT"
	CodeConfirmationRequired     = "CONFIRMATION_REQUIRED"
	CodeInvalidField             = "INVALID_FIELD"

	CodeGroupConflict      = "GROUP_CONFLICT"
	CodeTeacherUnavailable = "TEACHER_UNAVAILABLE"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeSlotOccupied       = "SLOT_OCCUPIED"
	CodeSlotAlreadyFree    = "SLOT_ALREADY_FREE"
	CodeTeacherHasLessons  = "TEACHER_HAS_LESSONS"
	CodeGroupHasLessons    = "GROUP_HAS_LESSONS"
	CodeCohortInUse        = "COHORT_IN_USE"
	CodeConcurrentUpdate   = "CONCURRENT_UPDATE"

	CodeSlotNotFound    = "SLOT_NOT_FOUND"
	CodeLessonNotFound  = "LESSON_NOT_FOUND"
	CodeGroupNotFound   = "GROUP_NOT_FOUND"
	CodeTeacherNotFound = "TEACHER_NOT_FOUND"
	CodeNothingMatched  = "NOTHING_MATCHED"

	CodeDBError = "DB_ERROR"
)

// Error - ошибка с видом, кодом и человекочитаемым сообщением.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(code, format string, args ...any) *Error {
	return newError(KindValidation, code, format, args...)
}

func Conflict(code, format string, args ...any) *Error {
	return newError(KindConflict, code, format, args...)
}

func NotFound(code, format string, args ...any) *Error {
	return newError(KindNotFound, code, format, args...)
}

// Transaction оборачивает ошибку хранилища, возникшую в фазе записи.
func Transaction(err error, format string, args ...any) *Error {
	e := newError(KindTransaction, CodeDBError, format, args...)
	e.Err = err
	return e
}

// As извлекает *Error из цепочки ошибок.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf возвращает вид ошибки; для посторонних ошибок - KindTransaction.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindTransaction
}

// CodeOf возвращает код ошибки или пустую строку.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}

type sqlStateErr interface {
	SQLState() string
	Error() string
}

// FromStore переводит ошибку хранилища в ошибку движка. Уже типизированные ошибки
// возвращаются как есть; коды SQLSTATE Postgres превращаются в конфликты.
func FromStore(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	var pgErr sqlStateErr
	if errors.As(err, &pgErr) {
		switch pgErr.SQLState() {
		case "23505":
			e := Conflict(CodeDuplicateName, "%s: запись с таким уникальным значением уже существует", op)
			e.Err = err
			return e
		case "40001", "40P01":
			e := Conflict(CodeConcurrentUpdate, "%s: конкурентное изменение тех же данных, повторите запрос", op)
			e.Err = err
			return e
		}
	}
	return Transaction(err, "%s: ошибка базы данных", op)
}

// FromValidator переводит первую ошибку go-playground/validator в ошибку валидации.
// codes сопоставляет имя поля структуры с кодом; неизвестные поля получают INVALID_FIELD.
func FromValidator(err error, codes map[string]string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.StructField()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	code, ok := codes[field]
	if !ok {
		code = CodeInvalidField
	}
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return Validation(code, "поле %s: значение %v не проходит проверку %s", fe.Field(), fe.Value(), rule)
}
