package service

import (
	"fmt"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
)

func (s *Service) ListDoctors() []domain.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.doctors.List()
}

func (s *Service) GetDoctor(id int64) (domain.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, ok := s.doctors.Get(id)
	if !ok {
		return domain.Doctor{}, fmt.Errorf("医生 %d: %w", id, domain.ErrNotFound)
	}
	return doctor, nil
}

// AddDoctor 不影响已有单元格，因此不需要重建网格
func (s *Service) AddDoctor(name, email string) (domain.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, err := s.doctors.Add(name, email)
	if err != nil {
		return domain.Doctor{}, err
	}
	s.doctorFilter.SetItems(s.doctors.List())

	return doctor, s.commit(repository.KeyDoctors, repository.KeySequences)
}

// UpdateDoctor 会刷新网格中该医生的名称
func (s *Service) UpdateDoctor(id int64, name, email string) (domain.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, err := s.doctors.Update(id, name, email)
	if err != nil {
		return domain.Doctor{}, err
	}
	s.doctorFilter.SetItems(s.doctors.List())
	s.rebuild()

	return doctor, s.commit(repository.KeyDoctors, repository.KeySchedule)
}

// RemoveDoctor 会清空该医生在网格中的所有分配
func (s *Service) RemoveDoctor(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.doctors.Remove(id) {
		return nil
	}
	s.doctorFilter.SetItems(s.doctors.List())
	s.rebuild()

	return s.commit(repository.KeyDoctors, repository.KeySchedule)
}
