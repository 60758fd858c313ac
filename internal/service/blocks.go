package service

import (
	"fmt"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
)

func (s *Service) ListBlocks() []domain.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.blocks.List()
}

func (s *Service) GetBlock(id int64) (domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.blocks.Get(id)
	if !ok {
		return domain.Block{}, fmt.Errorf("楼栋 %d: %w", id, domain.ErrNotFound)
	}
	return block, nil
}

func (s *Service) AddBlock(name string) (domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.blocks.Add(name)
	if err != nil {
		return domain.Block{}, err
	}
	s.blockFilter.SetItems(s.blocks.List())

	return block, s.commit(repository.KeyBlocks, repository.KeySequences)
}

// UpdateBlock 重命名楼栋后，房间读取时显示的楼栋名称随之变化
func (s *Service) UpdateBlock(id int64, name string) (domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.blocks.Update(id, name)
	if err != nil {
		return domain.Block{}, err
	}
	s.blockFilter.SetItems(s.blocks.List())
	s.roomFilter.SetItems(s.rooms.Resolve(s.blocks))

	return block, s.commit(repository.KeyBlocks)
}

func (s *Service) RemoveBlock(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.blocks.Remove(id) {
		return nil
	}
	s.blockFilter.SetItems(s.blocks.List())
	s.roomFilter.SetItems(s.rooms.Resolve(s.blocks))

	return s.commit(repository.KeyBlocks)
}
