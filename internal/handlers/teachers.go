package handlers

import (
	"net/http"

	"univ_schedule/internal/directory"
	"univ_schedule/internal/ledger"
	"univ_schedule/internal/response"

	"github.com/gin-gonic/gin"
)

// FreeHoursQuery - фильтры слотов доступности; 0 - фильтр не применяется.
type FreeHoursQuery struct {
	Day       int  `form:"day"`
	Pair      int  `form:"pair"`
	TeacherID uint `form:"teacher_id"`
	OnlyFree  bool `form:"free"`
}

// @Summary		Список преподавателей
// @Tags			teachers
// @Produce		json
// @Param			name	query		string	false	"Часть ФИО"
// @Success		200		{array}		models.Teacher
// @Router			/teachers [get]
func (h *Handler) ListTeachers(c *gin.Context) {
	teachers, err := h.query.Teachers(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// AvailableTeachers возвращает преподавателей со свободными слотами в (day, pair)
// @Summary		Свободные преподаватели
// @Tags			teachers
// @Produce		json
// @Param			day		query		int	false	"День недели 1..5"
// @Param			pair	query		int	false	"Номер пары 1..4"
// @Success		200		{array}		models.Teacher
// @Failure		400		{object}	response.ErrorResponse	"INVALID_DAY, INVALID_PAIR"
// @Router			/teachers/available [get]
func (h *Handler) AvailableTeachers(c *gin.Context) {
	var q FreeHoursQuery
	if !bindQuery(c, &q) {
		return
	}
	teachers, err := h.query.AvailableTeachers(c.Request.Context(), q.Day, q.Pair)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// @Summary		Слоты доступности
// @Tags			teachers
// @Produce		json
// @Param			day			query		int		false	"День недели 1..5"
// @Param			pair		query		int		false	"Номер пары 1..4"
// @Param			teacher_id	query		int		false	"ID преподавателя"
// @Param			free		query		bool	false	"Только свободные"
// @Success		200			{array}		models.FreeHour
// @Failure		400			{object}	response.ErrorResponse	"INVALID_DAY, INVALID_PAIR"
// @Router			/free-hours [get]
func (h *Handler) ListFreeHours(c *gin.Context) {
	var q FreeHoursQuery
	if !bindQuery(c, &q) {
		return
	}
	f := ledger.Filter{Day: q.Day, Pair: q.Pair, TeacherID: q.TeacherID}
	hours, err := h.query.FreeHours(c.Request.Context(), f, q.OnlyFree)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

// @Summary		Создание преподавателя
// @Description	Без free_hours преподаватель свободен во всех 20 слотах
// @Tags			teachers
// @Accept			json
// @Produce		json
// @Param			teacher	body		directory.TeacherInput	true	"Преподаватель"
// @Security		BearerAuth
// @Success		201		{object}	models.Teacher
// @Failure		400		{object}	response.ErrorResponse	"INVALID_TEACHER_NAME, INVALID_POSITION"
// @Failure		409		{object}	response.ErrorResponse	"DUPLICATE_NAME"
// @Router			/teachers [post]
func (h *Handler) CreateTeacher(c *gin.Context) {
	var in directory.TeacherInput
	if !bindJSON(c, &in) {
		return
	}
	teacher, err := h.directory.CreateTeacher(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, teacher)
}

// @Summary		Изменение преподавателя
// @Tags			teachers
// @Accept			json
// @Produce		json
// @Param			id		path		int							true	"ID преподавателя"
// @Param			teacher	body		directory.TeacherUpdate		true	"Изменяемые поля"
// @Security		BearerAuth
// @Success		200		{object}	models.Teacher
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse	"TEACHER_NOT_FOUND"
// @Failure		409		{object}	response.ErrorResponse	"DUPLICATE_NAME"
// @Router			/teachers/{id} [patch]
func (h *Handler) UpdateTeacher(c *gin.Context) {
	id, ok := pathID(c, "INVALID_TEACHER_ID")
	if !ok {
		return
	}
	var in directory.TeacherUpdate
	if !bindJSON(c, &in) {
		return
	}
	teacher, err := h.directory.UpdateTeacher(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// @Summary		Изменение слотов доступности
// @Description	Сначала убирает слоты remove, затем добавляет свободные слоты add. Занятый слот убрать нельзя
// @Tags			teachers
// @Accept			json
// @Produce		json
// @Param			id		path		int							true	"ID преподавателя"
// @Param			change	body		directory.FreeHoursChange	true	"Слоты"
// @Security		BearerAuth
// @Success		200		{object}	models.Teacher
// @Failure		404		{object}	response.ErrorResponse	"TEACHER_NOT_FOUND, SLOT_NOT_FOUND"
// @Failure		409		{object}	response.ErrorResponse	"SLOT_OCCUPIED"
// @Router			/teachers/{id}/free-hours [patch]
func (h *Handler) AdjustFreeHours(c *gin.Context) {
	id, ok := pathID(c, "INVALID_TEACHER_ID")
	if !ok {
		return
	}
	var change directory.FreeHoursChange
	if !bindJSON(c, &change) {
		return
	}
	teacher, err := h.directory.AdjustFreeHours(c.Request.Context(), id, change)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// @Summary		Удаление преподавателя
// @Description	Преподавателя, ведущего занятия, удалить нельзя
// @Tags			teachers
// @Produce		json
// @Param			id		path		int		true	"ID преподавателя"
// @Param			confirm	query		string	true	"Подтверждение удаления"
// @Security		BearerAuth
// @Success		200		{object}	models.Teacher	"Удалённый преподаватель"
// @Failure		400		{object}	response.ErrorResponse	"CONFIRMATION_REQUIRED"
// @Failure		404		{object}	response.ErrorResponse	"TEACHER_NOT_FOUND"
// @Failure		409		{object}	response.ErrorResponse	"TEACHER_HAS_LESSONS"
// @Router			/teachers/{id} [delete]
func (h *Handler) DeleteTeacher(c *gin.Context) {
	id, ok := pathID(c, "INVALID_TEACHER_ID")
	if !ok {
		return
	}
	teacher, err := h.directory.DeleteTeacher(c.Request.Context(), id, c.Query("confirm"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}
