package config

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Справочники по умолчанию. Переопределяются через SPECIALTIES и POSITIONS.
var (
	defaultSpecialties = []string{
		"Комп'ютерні науки",
		"Інженерія програмного забезпечення",
		"Кібербезпека",
		"Прикладна математика",
		"Системний аналіз",
	}
	defaultPositions = []string{
		"Асистент",
		"Викладач",
		"Старший викладач",
		"Доцент",
		"Професор",
	}
)

// Reference содержит закрытые множества значений, по которым валидируются группы и преподаватели.
type Reference struct {
	Specialties       []string
	Positions         []string
	MaxCourse         int
	ConfirmationToken string
}

// DefaultReference возвращает справочники, используемые при отсутствии переменных окружения.
func DefaultReference() Reference {
	return Reference{
		Specialties:       append([]string(nil), defaultSpecialties...),
		Positions:         append([]string(nil), defaultPositions...),
		MaxCourse:         4,
		ConfirmationToken: "yes",
	}
}

func (r Reference) HasSpecialty(s string) bool {
	return contains(r.Specialties, s)
}

func (r Reference) HasPosition(p string) bool {
	return contains(r.Positions, p)
}

func (r Reference) ValidCourse(course int) bool {
	return course >= 1 && course <= r.MaxCourse
}

// Confirmed сообщает, совпадает ли ответ пользователя с токеном подтверждения.
func (r Reference) Confirmed(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), r.ConfirmationToken)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

type DBConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	Name      string
	SSLMode   string
	Isolation sql.IsolationLevel
}

// DSN собирает строку подключения к Postgres.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type Config struct {
	HTTPAddr      string
	DB            DBConfig
	RedisAddr     string
	RedisChannel  string
	AccessSecret  []byte
	RefreshSecret []byte
	AuditCron     string
	ParityAnchor  time.Time
	Reference     Reference
}

// Load подгружает .env (если ENV_CHEK не задан) и собирает конфигурацию из окружения.
func Load() (*Config, error) {
	if os.Getenv("ENV_CHEK") == "" {
		if err := godotenv.Load(); err != nil {
			slog.Warn("Файл .env не найден, используются переменные окружения")
		}
	}

	isolation, err := ParseIsolation(GetEnv("DB_ISOLATION", "serializable"))
	if err != nil {
		return nil, err
	}

	anchor, err := time.Parse(time.DateOnly, GetEnv("WEEK_PARITY_ANCHOR", "2025-09-01"))
	if err != nil {
		return nil, fmt.Errorf("WEEK_PARITY_ANCHOR: %w", err)
	}

	ref := DefaultReference()
	if v := GetEnv("SPECIALTIES"); v != "" {
		ref.Specialties = splitList(v)
	}
	if v := GetEnv("POSITIONS"); v != "" {
		ref.Positions = splitList(v)
	}
	if v := GetEnv("MAX_COURSE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("MAX_COURSE: неверное значение %q", v)
		}
		ref.MaxCourse = n
	}
	ref.ConfirmationToken = GetEnv("DELETE_CONFIRMATION", ref.ConfirmationToken)

	cfg := &Config{
		HTTPAddr: GetEnv("HTTP_ADDR", ":8080"),
		DB: DBConfig{
			Host:      GetEnv("DB_HOST"),
			Port:      GetEnv("DB_PORT", "5432"),
			User:      GetEnv("DB_USER"),
			Password:  GetEnv("DB_PASSWORD"),
			Name:      GetEnv("DB_NAME"),
			SSLMode:   GetEnv("DB_SSLMODE", "disable"),
			Isolation: isolation,
		},
		RedisAddr:     GetEnv("REDIS_ADDR"),
		RedisChannel:  GetEnv("REDIS_CHANNEL", "schedule:lessons"),
		AccessSecret:  []byte(GetEnv("JWT_ACCESS_SECRET")),
		RefreshSecret: []byte(GetEnv("JWT_REFRESH_SECRET")),
		AuditCron:     GetEnv("AUDIT_CRON", "0 0 3 * * *"),
		ParityAnchor:  anchor,
		Reference:     ref,
	}
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		slog.Warn("JWT_ACCESS_SECRET или JWT_REFRESH_SECRET не заданы")
	}
	return cfg, nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// ParseIsolation переводит имя уровня изоляции в sql.IsolationLevel.
func ParseIsolation(name string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return sql.LevelDefault, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	}
	return sql.LevelDefault, fmt.Errorf("DB_ISOLATION: неизвестный уровень изоляции %q", name)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
