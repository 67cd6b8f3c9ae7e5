package handlers

import (
	"net/http"

	"univ_schedule/internal/engine"
	"univ_schedule/internal/models"
	"univ_schedule/internal/query"
	"univ_schedule/internal/response"

	"github.com/gin-gonic/gin"
)

// FindLessonQuery - параметры поиска занятия группы в слоте.
type FindLessonQuery struct {
	Group string `form:"group" binding:"required"`
	Day   int    `form:"day" binding:"required"`
	Pair  int    `form:"pair" binding:"required"`
}

// ListLessons возвращает занятия с необязательными фильтрами
// @Summary		Список занятий
// @Tags			lessons
// @Produce		json
// @Param			day		query		int	false	"День недели 1..5"
// @Param			pair	query		int	false	"Номер пары 1..4"
// @Success		200		{array}		models.Lesson
// @Failure		400		{object}	response.ErrorResponse	"INVALID_DAY, INVALID_PAIR"
// @Router			/lessons [get]
func (h *Handler) ListLessons(c *gin.Context) {
	var f query.LessonFilter
	if !bindQuery(c, &f) {
		return
	}
	lessons, err := h.query.Lessons(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// @Summary		Занятие по ID
// @Tags			lessons
// @Produce		json
// @Param			id	path		int	true	"ID занятия"
// @Success		200	{object}	models.Lesson
// @Failure		404	{object}	response.ErrorResponse	"LESSON_NOT_FOUND"
// @Router			/lessons/{id} [get]
func (h *Handler) GetLesson(c *gin.Context) {
	id, ok := pathID(c, "INVALID_LESSON_ID")
	if !ok {
		return
	}
	lesson, err := h.query.LessonByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// @Summary		Занятия преподавателя
// @Tags			lessons
// @Produce		json
// @Param			name	query		string	true	"ФИО преподавателя"
// @Success		200		{array}		models.Lesson
// @Failure		404		{object}	response.ErrorResponse	"TEACHER_NOT_FOUND"
// @Router			/lessons/by-teacher [get]
func (h *Handler) LessonsByTeacher(c *gin.Context) {
	lessons, err := h.query.LessonsByTeacher(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// @Summary		Занятия группы
// @Tags			lessons
// @Produce		json
// @Param			name	query		string	true	"Название группы"
// @Success		200		{array}		models.Lesson
// @Failure		404		{object}	response.ErrorResponse	"GROUP_NOT_FOUND"
// @Router			/lessons/by-group [get]
func (h *Handler) LessonsByGroup(c *gin.Context) {
	lessons, err := h.query.LessonsByGroup(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// FindLesson ищет занятие группы в слоте, обычно перед удалением
// @Summary		Поиск занятия группы в слоте
// @Tags			lessons
// @Produce		json
// @Param			group	query		string	true	"Название группы"
// @Param			day		query		int		true	"День недели 1..5"
// @Param			pair	query		int		true	"Номер пары 1..4"
// @Success		200		{object}	models.Lesson
// @Failure		400		{object}	response.ErrorResponse	"VALIDATION_ERROR, INVALID_DAY, INVALID_PAIR"
// @Failure		404		{object}	response.ErrorResponse	"GROUP_NOT_FOUND, LESSON_NOT_FOUND"
// @Router			/lessons/find [get]
func (h *Handler) FindLesson(c *gin.Context) {
	var q FindLessonQuery
	if !bindQuery(c, &q) {
		return
	}
	lesson, err := h.query.FindLessonByTimeAndGroup(c.Request.Context(), q.Group, models.Slot{Day: q.Day, Pair: q.Pair})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// @Summary		Создание занятия
// @Description	Проверяет занятость групп и доступность преподавателей и занимает их слоты
// @Tags			lessons
// @Accept			json
// @Produce		json
// @Param			lesson	body		engine.CreateInput	true	"Занятие"
// @Security		BearerAuth
// @Success		201		{object}	models.Lesson
// @Failure		400		{object}	response.ErrorResponse	"Ошибка валидации (INVALID_DAY, INVALID_PAIR, EMPTY_GROUPS, MIXED_COHORT, ...)"
// @Failure		404		{object}	response.ErrorResponse	"GROUP_NOT_FOUND, TEACHER_NOT_FOUND"
// @Failure		409		{object}	response.ErrorResponse	"GROUP_CONFLICT, TEACHER_UNAVAILABLE"
// @Router			/lessons [post]
func (h *Handler) CreateLesson(c *gin.Context) {
	var in engine.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	lesson, err := h.engine.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// @Summary		Изменение занятия
// @Description	Частичное обновление: отсутствующие поля не меняются
// @Tags			lessons
// @Accept			json
// @Produce		json
// @Param			id		path		int					true	"ID занятия"
// @Param			lesson	body		engine.UpdateInput	true	"Изменяемые поля"
// @Security		BearerAuth
// @Success		200		{object}	models.Lesson
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse	"LESSON_NOT_FOUND"
// @Failure		409		{object}	response.ErrorResponse	"GROUP_CONFLICT, TEACHER_UNAVAILABLE"
// @Router			/lessons/{id} [patch]
func (h *Handler) UpdateLesson(c *gin.Context) {
	id, ok := pathID(c, "INVALID_LESSON_ID")
	if !ok {
		return
	}
	var in engine.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	lesson, err := h.engine.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// @Summary		Удаление занятия
// @Description	Требует подтверждения в параметре confirm и освобождает слоты преподавателей
// @Tags			lessons
// @Produce		json
// @Param			id		path		int		true	"ID занятия"
// @Param			confirm	query		string	true	"Подтверждение удаления"
// @Security		BearerAuth
// @Success		200		{object}	models.Lesson	"Удалённое занятие"
// @Failure		400		{object}	response.ErrorResponse	"CONFIRMATION_REQUIRED"
// @Failure		404		{object}	response.ErrorResponse	"LESSON_NOT_FOUND"
// @Router			/lessons/{id} [delete]
func (h *Handler) DeleteLesson(c *gin.Context) {
	id, ok := pathID(c, "INVALID_LESSON_ID")
	if !ok {
		return
	}
	lesson, err := h.engine.Delete(c.Request.Context(), id, c.Query("confirm"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// @Summary		Массовое удаление занятий
// @Description	Удаляет занятия по курсу и/или дню; без фильтров удаляет все
// @Tags			lessons
// @Produce		json
// @Param			course	query		int	false	"Курс"
// @Param			day		query		int	false	"День недели 1..5"
// @Security		BearerAuth
// @Success		200		{object}	response.DeletedResponse
// @Failure		400		{object}	response.ErrorResponse	"INVALID_COURSE, INVALID_DAY"
// @Failure		404		{object}	response.ErrorResponse	"NOTHING_MATCHED"
// @Router			/lessons [delete]
func (h *Handler) BulkDeleteLessons(c *gin.Context) {
	var f engine.BulkFilter
	if !bindQuery(c, &f) {
		return
	}
	n, err := h.engine.BulkDelete(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.DeletedResponse{Deleted: n})
}
