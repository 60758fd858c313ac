package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/scheduler"
)

const (
	ActionAssign   = "assign"
	ActionUnassign = "unassign"
)

// Assignment 描述一次分配或移除，Doctor 为被分配（或被移除）的医生
type Assignment struct {
	Action string          `json:"action"`
	Key    domain.CellKey  `json:"key"`
	Date   string          `json:"date"`
	Shift  string          `json:"shiftName"`
	Cell   domain.RoomCell `json:"cell"`
	Doctor domain.Doctor   `json:"doctor"`
}

func (s *Service) Schedule() *domain.ScheduleGrid {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Snapshot()
}

func (s *Service) WeekStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.weekStart
}

// SetWeekStart 切换到新的一周，已有分配按星期沿用
func (s *Service) SetWeekStart(start time.Time) (*domain.ScheduleGrid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.weekStart = scheduler.StartOfDay(start)
	s.rebuild()

	return s.store.Snapshot(), s.commit(repository.KeySchedule)
}

func (s *Service) Rebuild() (*domain.ScheduleGrid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rebuild()

	return s.store.Snapshot(), s.commit(repository.KeySchedule)
}

func (s *Service) Selection() scheduler.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.controller.Selection()
}

func (s *Service) SelectCell(key domain.CellKey) (scheduler.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.controller.SelectCell(key)
}

func (s *Service) CancelSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controller.Cancel()
}

// ConfirmAssignment 把医生分配到当前选中的单元格
func (s *Service) ConfirmAssignment(doctorID int64) (Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, cell, err := s.controller.ConfirmAssignment(doctorID)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			s.logger.Warn("选择的医生已被删除", "doctorId", doctorID)
		}
		return Assignment{}, err
	}

	doctor, _ := s.doctors.Get(doctorID)
	s.observer.AssignmentChanged(ActionAssign)

	return s.describe(ActionAssign, key, cell, doctor), s.commit(repository.KeySchedule)
}

// ConfirmRemoval 移除当前选中单元格上的医生
func (s *Service) ConfirmRemoval() (Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, removed, err := s.controller.ConfirmRemoval()
	if err != nil {
		return Assignment{}, err
	}

	s.observer.AssignmentChanged(ActionUnassign)
	return s.removal(key, removed), s.commit(repository.KeySchedule)
}

// Unassign 不经过选择直接清空单元格，单元格本来就为空时不做任何事
func (s *Service) Unassign(key domain.CellKey) (Assignment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.store.Cell(key)
	if !ok {
		return Assignment{}, false, fmt.Errorf("单元格 %s/%d/%d: %w", key.Day, key.ShiftID, key.RoomID, domain.ErrNotFound)
	}
	if before.Doctor == nil {
		return Assignment{}, false, nil
	}

	if _, err := s.store.Unassign(key); err != nil {
		return Assignment{}, false, err
	}
	s.controller.Revalidate()
	s.observer.AssignmentChanged(ActionUnassign)

	return s.removal(key, before), true, s.commit(repository.KeySchedule)
}

func (s *Service) removal(key domain.CellKey, removed domain.RoomCell) Assignment {
	doctor := domain.Doctor{ID: removed.Doctor.ID, Name: removed.Doctor.Name}
	if current, ok := s.doctors.Get(removed.Doctor.ID); ok {
		doctor = current
	}

	cell := removed
	cell.Doctor = nil
	return s.describe(ActionUnassign, key, cell, doctor)
}

// describe 补全日期和班次名称，供通知邮件使用
func (s *Service) describe(action string, key domain.CellKey, cell domain.RoomCell, doctor domain.Doctor) Assignment {
	a := Assignment{
		Action: action,
		Key:    key,
		Cell:   cell,
		Doctor: doctor,
	}

	if shift, ok := s.shifts.Get(key.ShiftID); ok {
		a.Shift = shift.Name()
	}
	for i := 0; i < domain.DaysPerWeek; i++ {
		date := s.weekStart.AddDate(0, 0, i)
		if date.Weekday().String() == key.Day {
			a.Date = date.Format(domain.DateLayout)
			break
		}
	}

	return a
}
