// Package service 把注册表、排班网格、交互控制器和持久化组合成一个整体。
//
// 所有读写都经过同一把锁串行执行：每个变更在内存中生效后立刻尝试持久化，
// 持久化失败时内存状态保留，失败的数据块会在下一次变更时重试。
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/registry"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/search"
)

// Observer 接收服务内部事件，用于监控指标
type Observer interface {
	GridRebuilt(cells int)
	AssignmentChanged(action string)
	PersistenceFailed(key string)
}

type nopObserver struct{}

func (nopObserver) GridRebuilt(int)          {}
func (nopObserver) AssignmentChanged(string) {}
func (nopObserver) PersistenceFailed(string) {}

type Option func(*Service)

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithClock 替换当前时间的来源，未配置周起始日期时用它计算最近的周日
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// 持久化顺序固定，便于日志对照
var persistOrder = []string{
	repository.KeyBlocks,
	repository.KeyRooms,
	repository.KeyShifts,
	repository.KeyDoctors,
	repository.KeySequences,
	repository.KeySchedule,
}

type Service struct {
	mu       sync.Mutex
	cfg      *config.Config
	logger   *slog.Logger
	repo     *repository.Repository
	observer Observer
	now      func() time.Time

	blocks  *registry.Blocks
	rooms   *registry.Rooms
	shifts  *registry.Shifts
	doctors *registry.Doctors

	weekStart  time.Time
	store      *scheduler.Store
	controller *scheduler.Controller

	blockFilter  *search.LiveFilter[domain.Block]
	roomFilter   *search.LiveFilter[domain.Room]
	shiftFilter  *search.LiveFilter[domain.Shift]
	doctorFilter *search.LiveFilter[domain.Doctor]

	// 尚未成功写入存储的数据块
	dirty map[string]bool
}

func New(cfg *config.Config, repo *repository.Repository, logger *slog.Logger, opts ...Option) (*Service, error) {
	s := &Service{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		observer: nopObserver{},
		now:      time.Now,
		dirty:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := repo.Load()
	if err != nil {
		return nil, err
	}

	s.blocks = registry.NewBlocks(snap.Blocks, snap.Sequences.Blocks)
	s.rooms = registry.NewRooms(snap.Rooms, snap.Sequences.Rooms)
	s.shifts = registry.NewShifts(snap.Shifts, snap.Sequences.Shifts)
	s.doctors = registry.NewDoctors(snap.Doctors, snap.Sequences.Doctors)

	// 配置优先，其次是上次保存的排班表，最后是本周周日
	if start, ok := cfg.WeekStartDate(); ok {
		s.weekStart = scheduler.StartOfDay(start)
	} else if saved, ok := snap.WeekStart(); ok {
		s.weekStart = saved
	} else {
		s.weekStart = scheduler.MostRecentSunday(s.now())
	}

	s.store = scheduler.NewStore(s.build(snap.Schedule))
	s.controller = scheduler.NewController(s.store, s.doctors)

	delay := cfg.SearchDebounce()
	s.blockFilter = search.NewLiveFilter(delay, domain.Block.DisplayName)
	s.roomFilter = search.NewLiveFilter(delay, domain.Room.DisplayName)
	s.shiftFilter = search.NewLiveFilter(delay, domain.Shift.DisplayName)
	s.doctorFilter = search.NewLiveFilter(delay, domain.Doctor.DisplayName)
	s.refreshFilters()

	// 启动时构建的网格可能与保存的不同（注册表在上次保存后发生过变化）
	if err := s.commit(repository.KeySchedule); err != nil {
		logger.Warn("启动时无法保存排班表", "error", err)
	}

	return s, nil
}

// Close 停止所有尚未触发的过滤任务
func (s *Service) Close() {
	s.blockFilter.Close()
	s.roomFilter.Close()
	s.shiftFilter.Close()
	s.doctorFilter.Close()
}

func (s *Service) build(previous *domain.ScheduleGrid) *domain.ScheduleGrid {
	grid := scheduler.Build(s.weekStart, s.rooms.Resolve(s.blocks), s.shifts.List(), s.doctors.List(), previous)
	s.observer.GridRebuilt(grid.CellCount())
	return grid
}

// rebuild 根据当前注册表重建网格，保留仍然有效的分配
func (s *Service) rebuild() {
	s.store.Reset(s.build(s.store.Snapshot()))
	s.controller.Revalidate()
	s.logger.Debug("排班表已重建", "weekStart", s.weekStart.Format(domain.WeekLayout))
}

func (s *Service) refreshFilters() {
	s.blockFilter.SetItems(s.blocks.List())
	s.roomFilter.SetItems(s.rooms.Resolve(s.blocks))
	s.shiftFilter.SetItems(s.shifts.List())
	s.doctorFilter.SetItems(s.doctors.List())
}

func (s *Service) sequences() repository.Sequences {
	return repository.Sequences{
		Blocks:  s.blocks.Seq(),
		Rooms:   s.rooms.Seq(),
		Shifts:  s.shifts.Seq(),
		Doctors: s.doctors.Seq(),
	}
}

// save 把 key 对应的数据块写入存储
func (s *Service) save(key string) error {
	switch key {
	case repository.KeyBlocks:
		return s.repo.SaveBlocks(s.blocks.List())
	case repository.KeyRooms:
		return s.repo.SaveRooms(s.rooms.List())
	case repository.KeyShifts:
		return s.repo.SaveShifts(s.shifts.List())
	case repository.KeyDoctors:
		return s.repo.SaveDoctors(s.doctors.List())
	case repository.KeySequences:
		return s.repo.SaveSequences(s.sequences())
	case repository.KeySchedule:
		return s.repo.SaveSchedule(s.store.Snapshot())
	}
	return fmt.Errorf("未知的数据块 %q", key)
}

// commit 持久化本次变更涉及的数据块以及之前失败的数据块。
// 返回的 *domain.PersistenceError 只列出本次仍然失败的数据块。
func (s *Service) commit(keys ...string) error {
	for _, key := range keys {
		s.dirty[key] = true
	}
	if s.store.Dirty() {
		s.dirty[repository.KeySchedule] = true
	}

	var (
		failed []string
		errs   []error
	)
	for _, key := range persistOrder {
		if !s.dirty[key] {
			continue
		}

		if err := s.save(key); err != nil {
			s.observer.PersistenceFailed(key)
			failed = append(failed, key)
			var perr *domain.PersistenceError
			if errors.As(err, &perr) {
				err = perr.Err
			}
			errs = append(errs, err)
			continue
		}

		delete(s.dirty, key)
		if key == repository.KeySchedule {
			s.store.MarkClean()
		}
	}

	if len(failed) > 0 {
		return &domain.PersistenceError{Keys: failed, Err: errors.Join(errs...)}
	}
	return nil
}

// Pending 返回尚未成功持久化的数据块
func (s *Service) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for _, key := range persistOrder {
		if s.dirty[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

// Flush 重试所有尚未成功持久化的数据块
func (s *Service) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit()
}
