package handlers

import (
	"net/http"
	"time"

	"univ_schedule/internal/parity"
	"univ_schedule/internal/response"

	"github.com/gin-gonic/gin"
)

// dateParam разбирает параметр date (YYYY-MM-DD); пустой - сегодня.
func dateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	date, err := parity.ParseDate(raw)
	if err != nil {
		response.BadRequest(c, "INVALID_DATE", "Дата должна быть в формате YYYY-MM-DD", err)
		return time.Time{}, false
	}
	return date, true
}

// GroupSchedule возвращает занятия группы на дату с учётом чётности недели
// @Summary		Расписание группы на дату
// @Description	Занятия группы в день недели даты; остаются занятия "каждую неделю" и совпадающие по чётности
// @Tags			schedule
// @Produce		json
// @Param			group	query		string	true	"Название группы"
// @Param			date	query		string	false	"Дата YYYY-MM-DD, по умолчанию сегодня"
// @Success		200		{object}	query.DaySchedule
// @Failure		400		{object}	response.ErrorResponse	"INVALID_DATE"
// @Failure		404		{object}	response.ErrorResponse	"GROUP_NOT_FOUND"
// @Router			/schedule [get]
func (h *Handler) GroupSchedule(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	schedule, err := h.query.GroupScheduleForDate(c.Request.Context(), c.Query("group"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// @Summary		Чётность недели
// @Tags			schedule
// @Produce		json
// @Param			date	query		string	false	"Дата YYYY-MM-DD, по умолчанию сегодня"
// @Success		200		{object}	query.WeekParity
// @Failure		400		{object}	response.ErrorResponse	"INVALID_DATE"
// @Router			/week-parity [get]
func (h *Handler) WeekParity(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.query.WeekParity(date))
}
