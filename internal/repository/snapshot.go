package repository

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

// Sequences 保存每个注册表最后分配出去的 id
type Sequences struct {
	Blocks  int64 `json:"blocks"`
	Rooms   int64 `json:"rooms"`
	Shifts  int64 `json:"shifts"`
	Doctors int64 `json:"doctors"`
}

type Snapshot struct {
	Blocks    []domain.Block
	Rooms     []domain.Room
	Shifts    []domain.Shift
	Doctors   []domain.Doctor
	Schedule  *domain.ScheduleGrid // 为 nil 表示还没有保存过排班表
	Sequences Sequences
}

// WeekStart 从已保存的排班表中解析周起始日期
func (s *Snapshot) WeekStart() (time.Time, bool) {
	if s.Schedule == nil {
		return time.Time{}, false
	}
	t, err := s.Schedule.StartDate()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Load 读取所有数据块。
// 缺失或损坏的数据块回退为空列表（doctors 回退为默认医生列表），只有存储本身不可用时才返回错误。
func (r *Repository) Load() (*Snapshot, error) {
	var (
		snap = &Snapshot{}
		err  error
	)

	if snap.Blocks, _, err = read[[]domain.Block](r, KeyBlocks); err != nil {
		return nil, fmt.Errorf("无法读取 %s: %w", KeyBlocks, err)
	}
	if snap.Rooms, _, err = read[[]domain.Room](r, KeyRooms); err != nil {
		return nil, fmt.Errorf("无法读取 %s: %w", KeyRooms, err)
	}
	if snap.Shifts, _, err = read[[]domain.Shift](r, KeyShifts); err != nil {
		return nil, fmt.Errorf("无法读取 %s: %w", KeyShifts, err)
	}

	doctors, found, err := read[[]domain.Doctor](r, KeyDoctors)
	if err != nil {
		return nil, fmt.Errorf("无法读取 %s: %w", KeyDoctors, err)
	}
	snap.Doctors = doctors
	if !found || doctors == nil {
		snap.Doctors = domain.DefaultDoctors()
	}

	grid, found, err := read[*domain.ScheduleGrid](r, KeySchedule)
	if err != nil {
		return nil, fmt.Errorf("无法读取 %s: %w", KeySchedule, err)
	}
	if found && grid != nil && grid.Data != nil {
		snap.Schedule = grid
	}

	if snap.Sequences, _, err = read[Sequences](r, KeySequences); err != nil {
		return nil, fmt.Errorf("无法读取 %s: %w", KeySequences, err)
	}

	snap.Blocks = orEmpty(snap.Blocks)
	snap.Rooms = orEmpty(snap.Rooms)
	snap.Shifts = orEmpty(snap.Shifts)
	snap.Doctors = orEmpty(snap.Doctors)

	r.logger.Info("已加载数据",
		"blocks", len(snap.Blocks),
		"rooms", len(snap.Rooms),
		"shifts", len(snap.Shifts),
		"doctors", len(snap.Doctors),
		"schedule", snap.Schedule != nil,
	)

	return snap, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
