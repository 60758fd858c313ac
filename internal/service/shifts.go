package service

import (
	"fmt"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
)

func (s *Service) ListShifts() []domain.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shifts.List()
}

func (s *Service) GetShift(id int64) (domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, ok := s.shifts.Get(id)
	if !ok {
		return domain.Shift{}, fmt.Errorf("班次 %d: %w", id, domain.ErrNotFound)
	}
	return shift, nil
}

func (s *Service) AddShift(startTime, endTime string) (domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, err := s.shifts.Add(startTime, endTime)
	if err != nil {
		return domain.Shift{}, err
	}
	s.shiftFilter.SetItems(s.shifts.List())
	s.rebuild()

	return shift, s.commit(repository.KeyShifts, repository.KeySequences, repository.KeySchedule)
}

func (s *Service) UpdateShift(id int64, startTime, endTime string) (domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, err := s.shifts.Update(id, startTime, endTime)
	if err != nil {
		return domain.Shift{}, err
	}
	s.shiftFilter.SetItems(s.shifts.List())
	s.rebuild()

	return shift, s.commit(repository.KeyShifts, repository.KeySchedule)
}

func (s *Service) RemoveShift(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.shifts.Remove(id) {
		return nil
	}
	s.shiftFilter.SetItems(s.shifts.List())
	s.rebuild()

	return s.commit(repository.KeyShifts, repository.KeySchedule)
}
