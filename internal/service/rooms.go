package service

import (
	"fmt"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
)

// ListRooms 返回的 blockName 以楼栋注册表中的当前名称为准
func (s *Service) ListRooms() []domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rooms.Resolve(s.blocks)
}

func (s *Service) GetRoom(id int64) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms.Get(id); !ok {
		return domain.Room{}, fmt.Errorf("房间 %d: %w", id, domain.ErrNotFound)
	}
	for _, room := range s.rooms.Resolve(s.blocks) {
		if room.ID == id {
			return room, nil
		}
	}
	return domain.Room{}, fmt.Errorf("房间 %d: %w", id, domain.ErrNotFound)
}

func (s *Service) lookupBlock(blockID int64) (domain.Block, error) {
	block, ok := s.blocks.Get(blockID)
	if !ok {
		return domain.Block{}, domain.NewValidationError("blockId", "楼栋 %d 不存在", blockID)
	}
	return block, nil
}

func (s *Service) AddRoom(name string, blockID int64) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.lookupBlock(blockID)
	if err != nil {
		return domain.Room{}, err
	}

	room, err := s.rooms.Add(name, block)
	if err != nil {
		return domain.Room{}, err
	}
	s.roomFilter.SetItems(s.rooms.Resolve(s.blocks))
	s.rebuild()

	return room, s.commit(repository.KeyRooms, repository.KeySequences, repository.KeySchedule)
}

func (s *Service) UpdateRoom(id int64, name string, blockID int64) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.lookupBlock(blockID)
	if err != nil {
		return domain.Room{}, err
	}

	room, err := s.rooms.Update(id, name, block)
	if err != nil {
		return domain.Room{}, err
	}
	s.roomFilter.SetItems(s.rooms.Resolve(s.blocks))
	s.rebuild()

	return room, s.commit(repository.KeyRooms, repository.KeySchedule)
}

func (s *Service) RemoveRoom(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rooms.Remove(id) {
		return nil
	}
	s.roomFilter.SetItems(s.rooms.Resolve(s.blocks))
	s.rebuild()

	return s.commit(repository.KeyRooms, repository.KeySchedule)
}
