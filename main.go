package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "univ_schedule/docs"
	"univ_schedule/internal/audit"
	"univ_schedule/internal/auth"
	"univ_schedule/internal/config"
	"univ_schedule/internal/directory"
	"univ_schedule/internal/engine"
	"univ_schedule/internal/events"
	"univ_schedule/internal/handlers"
	"univ_schedule/internal/logging"
	"univ_schedule/internal/parity"
	"univ_schedule/internal/query"
	"univ_schedule/internal/storage"
	"univ_schedule/internal/tasks"
	"univ_schedule/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title						Расписание занятий университета
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	log := logging.Init(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Ошибка конфигурации", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.ConnectDatabase(cfg.DB, log)
	if err != nil {
		logging.Fatal("Ошибка подключения к базе данных", "error", err)
	}
	if err := storage.Migrate(db); err != nil {
		logging.Fatal("Ошибка при миграции", "error", err)
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// С Redis события идут через pub/sub, а hub получает их из Relay.
	var publisher events.Publisher = hub
	if redisClient := storage.InitRedis(ctx, cfg.RedisAddr, log); redisClient != nil {
		defer redisClient.Close()
		publisher = events.NewRedisPublisher(redisClient, cfg.RedisChannel)
		go func() {
			if err := events.Relay(ctx, redisClient, cfg.RedisChannel, hub, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Ретрансляция событий остановлена", "error", err)
			}
		}()
	}

	eng := engine.New(db, cfg.Reference,
		engine.WithTxOptions(storage.TxOptions(cfg.DB.Isolation)),
		engine.WithLogger(log),
		engine.WithPublisher(publisher),
	)
	dir := directory.New(db, cfg.Reference, log)
	q := query.New(db, parity.New(cfg.ParityAnchor))

	scheduler, err := tasks.InitScheduler(cfg.AuditCron, audit.New(db, log), log)
	if err != nil {
		logging.Fatal("Ошибка запуска планировщика", "error", err)
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws", hub.ServeWS)

	h := handlers.New(db, eng, dir, q, handlers.Secrets{
		Access:  cfg.AccessSecret,
		Refresh: cfg.RefreshSecret,
	}, log)
	h.Routes(r, auth.AuthMiddleware(cfg.AccessSecret))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка остановки сервера", "error", err)
		}
	}()

	log.Info("Сервер запущен", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Ошибка запуска сервера", "error", err)
	}
	log.Info("Сервер остановлен")
}
