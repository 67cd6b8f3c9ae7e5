package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"univ_schedule/internal/audit"

	"github.com/robfig/cron/v3"
)

const auditTimeout = 5 * time.Minute

// AuditJob возвращает задачу cron, проверяющую согласованность расписания.
func AuditJob(auditor *audit.Auditor, log *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		if _, err := auditor.Run(ctx); err != nil {
			log.Error("Ошибка аудита расписания", "error", err)
		}
	}
}

// InitScheduler запускает cron-планировщик аудита. Пустое расписание или "off" отключает
// планировщик: возвращается nil без ошибки.
func InitScheduler(spec string, auditor *audit.Auditor, log *slog.Logger) (*cron.Cron, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "off") {
		log.Info("Плановый аудит расписания отключён")
		return nil, nil
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, AuditJob(auditor, log)); err != nil {
		return nil, fmt.Errorf("AUDIT_CRON %q: %w", spec, err)
	}

	c.Start()
	log.Info("Cron-планировщик запущен", "audit", spec)
	return c, nil
}
