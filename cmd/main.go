// Команда audit один раз проверяет согласованность расписания и слотов доступности.
// Код выхода 1, если найдены нарушения.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"univ_schedule/internal/audit"
	"univ_schedule/internal/config"
	"univ_schedule/internal/logging"
	"univ_schedule/internal/storage"
)

func main() {
	asJSON := flag.Bool("json", false, "вывести отчёт в JSON")
	timeout := flag.Duration("timeout", 5*time.Minute, "ограничение времени проверки")
	flag.Parse()

	log := logging.Init(slog.LevelWarn)

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Ошибка конфигурации", "error", err)
	}

	db, err := storage.ConnectDatabase(cfg.DB, log)
	if err != nil {
		logging.Fatal("Ошибка подключения к базе данных", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := audit.New(db, log).Run(ctx)
	if err != nil {
		logging.Fatal("Ошибка аудита", "error", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		fmt.Printf("Проверено занятий: %d, слотов: %d\n", report.CheckedLessons, report.CheckedSlots)
		for _, v := range report.Violations {
			fmt.Printf("[%s] %s\n", v.Rule, v.Message)
		}
		if report.OK() {
			fmt.Println("Нарушений не найдено")
		}
	}

	if !report.OK() {
		os.Exit(1)
	}
}
