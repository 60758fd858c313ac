// Package storage 提供按名称存取数据块的持久化后端。
//
// 每个数据块（blocks、rooms、schedule...）都是一段独立的 JSON 文本，
// 后端只负责按 key 原样存取，不关心内容。
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
)

type Driver string

const (
	DriverMemory   Driver = config.DriverMemory
	DriverFile     Driver = config.DriverFile
	DriverSQLite   Driver = config.DriverSQLite
	DriverPostgres Driver = config.DriverPostgres
	DriverRedis    Driver = config.DriverRedis
	DriverS3       Driver = config.DriverS3
)

// ErrNotFound 表示 key 对应的数据块从未写入过
var ErrNotFound = errors.New("数据块不存在")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Driver() Driver
	Close() error
}

// Open 根据配置创建对应的存储后端
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store = NewMemory()
	case config.DriverFile:
		store, err = NewFile(cfg.Storage.File.Root)
	case config.DriverSQLite:
		store, err = NewSQLite(ctx, cfg.Storage.SQLite.Path)
	case config.DriverPostgres:
		store, err = NewPostgres(ctx, PostgresConfig{
			DSN:            cfg.Storage.Postgres.DSN,
			ConnectTimeout: cfg.Storage.Postgres.ConnectTimeout,
			MaxOpenConns:   cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:   cfg.Storage.Postgres.MaxIdleConns,
			MaxIdleTime:    cfg.Storage.Postgres.MaxIdleTime,
		})
	case config.DriverRedis:
		store, err = NewRedis(ctx, RedisConfig{
			Addr:      fmt.Sprintf("%s:%d", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port),
			Password:  cfg.Storage.Redis.Password,
			DB:        cfg.Storage.Redis.DB,
			KeyPrefix: cfg.Storage.Redis.KeyPrefix,
		})
	case config.DriverS3:
		store, err = NewS3(ctx, S3Config{
			Bucket:          cfg.Storage.S3.Bucket,
			Region:          cfg.Storage.S3.Region,
			Endpoint:        cfg.Storage.S3.Endpoint,
			PathStyle:       cfg.Storage.S3.PathStyle,
			Prefix:          cfg.Storage.S3.Prefix,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("未知的存储驱动 %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("无法打开 %s 存储: %w", cfg.Storage.Driver, err)
	}

	logger.Info("存储已就绪", "driver", store.Driver())
	return store, nil
}
