package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverS3       = "s3"

	WeekStartLayout = "02-01-2006"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Storage struct {
		Driver           string `env:"DRIVER" envDefault:"sqlite"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
		File             struct {
			Root string `env:"ROOT" envDefault:"./data"`
		} `envPrefix:"FILE_"`
		SQLite struct {
			Path string `env:"PATH" envDefault:"./data/room-schedule.db"`
		} `envPrefix:"SQLITE_"`
		Postgres struct {
			DSN            string `env:"DSN"`
			ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
			MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
			MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
			MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
		} `envPrefix:"POSTGRES_"`
		Redis struct {
			Host      string `env:"HOST" envDefault:"localhost"`
			Port      int    `env:"PORT" envDefault:"6379"`
			Password  string `env:"PASSWORD"`
			DB        int    `env:"DB" envDefault:"0"`
			KeyPrefix string `env:"KEY_PREFIX" envDefault:"room_schedule:"`
		} `envPrefix:"REDIS_"`
		S3 struct {
			Bucket          string `env:"BUCKET"`
			Region          string `env:"REGION" envDefault:"us-east-1"`
			Endpoint        string `env:"ENDPOINT"`
			PathStyle       bool   `env:"PATH_STYLE" envDefault:"false"`
			Prefix          string `env:"PREFIX" envDefault:"room-schedule/"`
			AccessKeyID     string `env:"ACCESS_KEY_ID"`
			SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
		} `envPrefix:"S3_"`
	} `envPrefix:"STORAGE_"`
	Schedule struct {
		WeekStart        string `env:"WEEK_START"` // DD-MM-YYYY，为空时使用最近的周日
		PageSize         int    `env:"PAGE_SIZE" envDefault:"5"`
		SearchDebounceMs int    `env:"SEARCH_DEBOUNCE_MS" envDefault:"300"`
	} `envPrefix:"SCHEDULE_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"` // 为空时不发送排班通知
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
		Queue          string `env:"QUEUE" envDefault:"assignment_queue"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		DoctorDomain string `env:"DOCTOR_DOMAIN" envDefault:"hospital.example.com"`
		SMTP         struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 检查与所选存储驱动相关的必填项
func (cfg *Config) Validate() error {
	switch cfg.Storage.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if cfg.Storage.Postgres.DSN == "" {
			return errors.New("使用 postgres 存储时必须设置 STORAGE_POSTGRES_DSN")
		}
	case DriverS3:
		if cfg.Storage.S3.Bucket == "" {
			return errors.New("使用 s3 存储时必须设置 STORAGE_S3_BUCKET")
		}
	default:
		return fmt.Errorf("未知的存储驱动 %q", cfg.Storage.Driver)
	}

	if cfg.Schedule.WeekStart != "" {
		if _, err := time.Parse(WeekStartLayout, cfg.Schedule.WeekStart); err != nil {
			return fmt.Errorf("SCHEDULE_WEEK_START 格式应为 DD-MM-YYYY: %w", err)
		}
	}
	if cfg.Schedule.PageSize <= 0 {
		return errors.New("SCHEDULE_PAGE_SIZE 必须大于 0")
	}
	if cfg.Schedule.SearchDebounceMs < 0 {
		return errors.New("SCHEDULE_SEARCH_DEBOUNCE_MS 不能为负数")
	}
	if cfg.Storage.OperationTimeout <= 0 {
		return errors.New("STORAGE_OPERATION_TIMEOUT 必须大于 0")
	}

	return nil
}

// WeekStartDate 返回配置的周起始日期，未配置时 ok 为 false
func (cfg *Config) WeekStartDate() (t time.Time, ok bool) {
	if cfg.Schedule.WeekStart == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(WeekStartLayout, cfg.Schedule.WeekStart, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (cfg *Config) SearchDebounce() time.Duration {
	return time.Duration(cfg.Schedule.SearchDebounceMs) * time.Millisecond
}

func (cfg *Config) OperationTimeout() time.Duration {
	return time.Duration(cfg.Storage.OperationTimeout) * time.Second
}

// NewLogger 根据 LOG_FORMAT 和 LOG_LEVEL 创建 logger
func (cfg *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
