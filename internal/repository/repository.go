package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/storage"
)

// 数据块名称
const (
	KeyBlocks    = "blocks"
	KeyRooms     = "rooms"
	KeyShifts    = "shifts"
	KeyDoctors   = "doctors"
	KeySchedule  = "schedule"
	KeySequences = "sequences"
)

// Keys 列出所有数据块
var Keys = []string{KeyBlocks, KeyRooms, KeyShifts, KeyDoctors, KeySchedule, KeySequences}

type Repository struct {
	cfg    *config.Config
	blobs  storage.Store
	logger *slog.Logger
}

func NewRepository(cfg *config.Config, blobs storage.Store, logger *slog.Logger) *Repository {
	return &Repository{
		cfg:    cfg,
		blobs:  blobs,
		logger: logger,
	}
}

// read 在数据块不存在时返回 found=false。
// 数据块存在但无法解析时记录警告并同样返回 found=false，由调用方使用默认值。
func read[T any](r *Repository, key string) (v T, found bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.OperationTimeout())
	defer cancel()

	data, err := r.blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}

	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		r.logger.Warn("数据块已损坏，使用默认值", "key", key, "error", err)
		return v, false, nil
	}

	return decoded, true, nil
}

// write 失败时返回 *domain.PersistenceError
func (r *Repository) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &domain.PersistenceError{Keys: []string{key}, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.OperationTimeout())
	defer cancel()

	if err := r.blobs.Put(ctx, key, data); err != nil {
		r.logger.Error("无法保存数据块", "key", key, "driver", r.blobs.Driver(), "error", err)
		return &domain.PersistenceError{Keys: []string{key}, Err: err}
	}

	return nil
}

// Clear 删除所有数据块，下次加载时全部回到默认值
func (r *Repository) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.OperationTimeout())
	defer cancel()

	var errs []error
	for _, key := range Keys {
		if err := r.blobs.Delete(ctx, key); err != nil {
			r.logger.Error("无法删除数据块", "key", key, "driver", r.blobs.Driver(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
