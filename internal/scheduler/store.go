package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

// Store 保存当前的排班网格，医生分配直接存放在网格的单元格中
type Store struct {
	grid  *domain.ScheduleGrid
	index cellIndex
	dirty bool
}

func NewStore(grid *domain.ScheduleGrid) *Store {
	s := &Store{}
	s.Reset(grid)
	return s
}

// Reset 整体替换网格（重新构建之后调用）
func (s *Store) Reset(grid *domain.ScheduleGrid) {
	if grid == nil {
		grid = &domain.ScheduleGrid{Data: []domain.DaySection{}}
	}
	s.grid = grid.Clone()
	s.index = indexGrid(s.grid)
	s.dirty = true
}

func (s *Store) Cell(key domain.CellKey) (domain.RoomCell, bool) {
	cell, ok := s.index[key]
	if !ok {
		return domain.RoomCell{}, false
	}

	out := *cell
	if cell.Doctor != nil {
		doctor := *cell.Doctor
		out.Doctor = &doctor
	}
	return out, true
}

// Assign 单元格不存在时返回 ErrNotFound（班次或房间在网格构建之后被删除，需要先重建）
func (s *Store) Assign(key domain.CellKey, doctor domain.Doctor) (domain.RoomCell, error) {
	cell, ok := s.index[key]
	if !ok {
		return domain.RoomCell{}, fmt.Errorf("单元格 %s/%d/%d: %w", key.Day, key.ShiftID, key.RoomID, domain.ErrNotFound)
	}

	cell.Doctor = &domain.CellDoctor{ID: doctor.ID, Name: doctor.Name}
	s.dirty = true

	out, _ := s.Cell(key)
	return out, nil
}

// Unassign 对尚未分配医生的单元格不做任何操作
func (s *Store) Unassign(key domain.CellKey) (domain.RoomCell, error) {
	cell, ok := s.index[key]
	if !ok {
		return domain.RoomCell{}, fmt.Errorf("单元格 %s/%d/%d: %w", key.Day, key.ShiftID, key.RoomID, domain.ErrNotFound)
	}

	if cell.Doctor != nil {
		cell.Doctor = nil
		s.dirty = true
	}

	return *cell, nil
}

// Snapshot 返回只读副本，用于渲染和持久化
func (s *Store) Snapshot() *domain.ScheduleGrid {
	return s.grid.Clone()
}

func (s *Store) Dirty() bool { return s.dirty }

func (s *Store) MarkClean() { s.dirty = false }
