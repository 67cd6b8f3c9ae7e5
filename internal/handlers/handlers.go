// Package handlers - HTTP-обработчики расписания поверх движка, справочников и выборок.
package handlers

import (
	"log/slog"
	"strconv"

	"univ_schedule/internal/directory"
	"univ_schedule/internal/engine"
	"univ_schedule/internal/query"
	"univ_schedule/internal/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler собирает зависимости обработчиков.
type Handler struct {
	db            *gorm.DB
	engine        *engine.Engine
	directory     *directory.Directory
	query         *query.Service
	accessSecret  []byte
	refreshSecret []byte
	log           *slog.Logger
}

// Secrets - ключи подписи access и refresh токенов.
type Secrets struct {
	Access  []byte
	Refresh []byte
}

func New(db *gorm.DB, eng *engine.Engine, dir *directory.Directory, q *query.Service, secrets Secrets, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		db:            db,
		engine:        eng,
		directory:     dir,
		query:         q,
		accessSecret:  secrets.Access,
		refreshSecret: secrets.Refresh,
		log:           log,
	}
}

// Routes регистрирует маршруты. protect проверяет авторизацию изменяющих запросов.
func (h *Handler) Routes(r gin.IRouter, protect gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshToken)
	}

	public := r.Group("")
	{
		public.GET("/lessons", h.ListLessons)
		public.GET("/lessons/:id", h.GetLesson)
		public.GET("/lessons/by-teacher", h.LessonsByTeacher)
		public.GET("/lessons/by-group", h.LessonsByGroup)
		public.GET("/lessons/find", h.FindLesson)
		public.GET("/schedule", h.GroupSchedule)
		public.GET("/week-parity", h.WeekParity)
		public.GET("/groups", h.ListGroups)
		public.GET("/teachers", h.ListTeachers)
		public.GET("/teachers/available", h.AvailableTeachers)
		public.GET("/free-hours", h.ListFreeHours)
	}

	protected := r.Group("", protect)
	{
		protected.POST("/lessons", h.CreateLesson)
		protected.PATCH("/lessons/:id", h.UpdateLesson)
		protected.DELETE("/lessons/:id", h.DeleteLesson)
		protected.DELETE("/lessons", h.BulkDeleteLessons)

		protected.POST("/teachers", h.CreateTeacher)
		protected.PATCH("/teachers/:id", h.UpdateTeacher)
		protected.PATCH("/teachers/:id/free-hours", h.AdjustFreeHours)
		protected.DELETE("/teachers/:id", h.DeleteTeacher)

		protected.POST("/groups", h.CreateGroup)
		protected.PATCH("/groups/:id", h.UpdateGroup)
		protected.DELETE("/groups/:id", h.DeleteGroup)
	}
}

// pathID разбирает :id; при ошибке отвечает 400 и возвращает false.
func pathID(c *gin.Context, code string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, code, "Неверный идентификатор", err)
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "Ошибка валидации данных", err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "Неверные параметры запроса", err)
		return false
	}
	return true
}
