package handlers

import (
	"net/http"

	"univ_schedule/internal/directory"
	"univ_schedule/internal/response"

	"github.com/gin-gonic/gin"
)

// ListGroups обрабатывает запрос на получение списка групп
// @Summary		Получение списка групп
// @Description	Все группы; name отбирает по вхождению подстроки
// @Tags			groups
// @Produce		json
// @Param			name	query		string	false	"Часть названия"
// @Success		200		{array}		models.Group
// @Failure		500		{object}	response.ErrorResponse	"Ошибка сервера"
// @Router			/groups [get]
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.query.Groups(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// @Summary		Создание группы
// @Tags			groups
// @Accept			json
// @Produce		json
// @Param			group	body		directory.GroupInput	true	"Группа"
// @Security		BearerAuth
// @Success		201		{object}	models.Group
// @Failure		400		{object}	response.ErrorResponse	"INVALID_GROUP_NAME, INVALID_COURSE, INVALID_SPECIALTY"
// @Failure		409		{object}	response.ErrorResponse	"DUPLICATE_NAME"
// @Router			/groups [post]
func (h *Handler) CreateGroup(c *gin.Context) {
	var in directory.GroupInput
	if !bindJSON(c, &in) {
		return
	}
	group, err := h.directory.CreateGroup(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// @Summary		Изменение группы
// @Tags			groups
// @Accept			json
// @Produce		json
// @Param			id		path		int						true	"ID группы"
// @Param			group	body		directory.GroupUpdate	true	"Изменяемые поля"
// @Security		BearerAuth
// @Success		200		{object}	models.Group
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse	"GROUP_NOT_FOUND"
// @Failure		409		{object}	response.ErrorResponse	"DUPLICATE_NAME, COHORT_IN_USE"
// @Router			/groups/{id} [patch]
func (h *Handler) UpdateGroup(c *gin.Context) {
	id, ok := pathID(c, "INVALID_GROUP_ID")
	if !ok {
		return
	}
	var in directory.GroupUpdate
	if !bindJSON(c, &in) {
		return
	}
	group, err := h.directory.UpdateGroup(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// @Summary		Удаление группы
// @Description	Группу, у которой есть занятия, удалить нельзя
// @Tags			groups
// @Produce		json
// @Param			id		path		int		true	"ID группы"
// @Param			confirm	query		string	true	"Подтверждение удаления"
// @Security		BearerAuth
// @Success		200		{object}	models.Group	"Удалённая группа"
// @Failure		400		{object}	response.ErrorResponse	"CONFIRMATION_REQUIRED"
// @Failure		404		{object}	response.ErrorResponse	"GROUP_NOT_FOUND"
// @Failure		409		{object}	response.ErrorResponse	"GROUP_HAS_LESSONS"
// @Router			/groups/{id} [delete]
func (h *Handler) DeleteGroup(c *gin.Context) {
	id, ok := pathID(c, "INVALID_GROUP_ID")
	if !ok {
		return
	}
	group, err := h.directory.DeleteGroup(c.Request.Context(), id, c.Query("confirm"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}
