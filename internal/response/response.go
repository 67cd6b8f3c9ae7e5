package response

import (
	"net/http"

	"univ_schedule/internal/apperror"

	"github.com/gin-gonic/gin"
)

// SuccessResponse представляет успешный ответ API
type SuccessResponse struct {
	Message string `json:"message" example:"Операция успешно выполнена"`
}

// ErrorResponse представляет ответ с ошибкой API
type ErrorResponse struct {
	// Код ошибки для программной обработки
	// example: GROUP_CONFLICT
	Code string `json:"code"`

	// Человекочитаемое сообщение об ошибке
	// example: группа ИП-21 уже занята в слоте (день 1, пара 2)
	Message string `json:"message"`

	// Дополнительные детали об ошибке (опционально)
	Details string `json:"details,omitempty"`
}

// TokenResponse представляет ответ с токенами авторизации
type TokenResponse struct {
	// JWT токен для доступа к защищенным эндпоинтам
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"access_token"`

	// JWT токен для обновления access токена
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refresh_token"`
}

// DeletedResponse - ответ на массовое удаление занятий.
type DeletedResponse struct {
	Deleted int64 `json:"deleted" example:"12"`
}

// StatusOf переводит вид ошибки движка в HTTP-статус.
func StatusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error отвечает ErrorResponse по ошибке движка. Текст посторонних ошибок наружу не отдаётся.
func Error(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    apperror.CodeDBError,
			Message: "Внутренняя ошибка сервера",
		})
		return
	}
	body := ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Kind == apperror.KindTransaction {
		body.Message = "Ошибка базы данных"
		body.Details = appErr.Message
	}
	c.JSON(StatusOf(err), body)
}

// BadRequest отвечает 400 с заданным кодом; details - текст ошибки разбора запроса.
func BadRequest(c *gin.Context, code, message string, err error) {
	body := ErrorResponse{Code: code, Message: message}
	if err != nil {
		body.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
