package registry

import (
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/utils"
)

type Blocks struct {
	*Collection[domain.Block]
}

func NewBlocks(items []domain.Block, seq int64) *Blocks {
	return &Blocks{Collection: NewCollection(items, seq)}
}

func (r *Blocks) Add(name string) (domain.Block, error) {
	if err := utils.ValidateName("name", name); err != nil {
		return domain.Block{}, err
	}

	block := domain.Block{ID: r.nextID(), Name: strings.TrimSpace(name)}
	r.add(block)
	return block, nil
}

func (r *Blocks) Update(id int64, name string) (domain.Block, error) {
	if err := utils.ValidateName("name", name); err != nil {
		return domain.Block{}, err
	}

	block := domain.Block{ID: id, Name: strings.TrimSpace(name)}
	if !r.replace(block) {
		return domain.Block{}, fmt.Errorf("楼栋 %d: %w", id, domain.ErrNotFound)
	}
	return block, nil
}

type Rooms struct {
	*Collection[domain.Room]
}

func NewRooms(items []domain.Room, seq int64) *Rooms {
	return &Rooms{Collection: NewCollection(items, seq)}
}

// Add 的 block 由调用方从 Blocks 中查出，房间记录保存 block 名称的快照
func (r *Rooms) Add(name string, block domain.Block) (domain.Room, error) {
	if err := utils.ValidateName("name", name); err != nil {
		return domain.Room{}, err
	}

	room := domain.Room{
		ID:        r.nextID(),
		Name:      strings.TrimSpace(name),
		BlockID:   block.ID,
		BlockName: block.Name,
	}
	r.add(room)
	return room, nil
}

func (r *Rooms) Update(id int64, name string, block domain.Block) (domain.Room, error) {
	if err := utils.ValidateName("name", name); err != nil {
		return domain.Room{}, err
	}

	room := domain.Room{
		ID:        id,
		Name:      strings.TrimSpace(name),
		BlockID:   block.ID,
		BlockName: block.Name,
	}
	if !r.replace(room) {
		return domain.Room{}, fmt.Errorf("房间 %d: %w", id, domain.ErrNotFound)
	}
	return room, nil
}

// Resolve 用 Blocks 中最新的名称覆盖房间保存的 blockName 快照；
// 楼栋已经被删除时保留快照
func (r *Rooms) Resolve(blocks *Blocks) []domain.Room {
	rooms := r.List()
	for i := range rooms {
		if block, ok := blocks.Get(rooms[i].BlockID); ok {
			rooms[i].BlockName = block.Name
		}
	}
	return rooms
}

type Shifts struct {
	*Collection[domain.Shift]
}

func NewShifts(items []domain.Shift, seq int64) *Shifts {
	return &Shifts{Collection: NewCollection(items, seq)}
}

func (r *Shifts) Add(startTime, endTime string) (domain.Shift, error) {
	if err := utils.ValidateShiftTime(startTime, endTime); err != nil {
		return domain.Shift{}, err
	}

	shift := domain.Shift{
		ID:        r.nextID(),
		StartTime: utils.NormalizeClock(startTime),
		EndTime:   utils.NormalizeClock(endTime),
	}
	r.add(shift)
	return shift, nil
}

func (r *Shifts) Update(id int64, startTime, endTime string) (domain.Shift, error) {
	if err := utils.ValidateShiftTime(startTime, endTime); err != nil {
		return domain.Shift{}, err
	}

	shift := domain.Shift{
		ID:        id,
		StartTime: utils.NormalizeClock(startTime),
		EndTime:   utils.NormalizeClock(endTime),
	}
	if !r.replace(shift) {
		return domain.Shift{}, fmt.Errorf("班次 %d: %w", id, domain.ErrNotFound)
	}
	return shift, nil
}

type Doctors struct {
	*Collection[domain.Doctor]
}

func NewDoctors(items []domain.Doctor, seq int64) *Doctors {
	return &Doctors{Collection: NewCollection(items, seq)}
}

func (r *Doctors) Add(name, email string) (domain.Doctor, error) {
	if err := utils.ValidateName("name", name); err != nil {
		return domain.Doctor{}, err
	}

	doctor := domain.Doctor{ID: r.nextID(), Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	r.add(doctor)
	return doctor, nil
}

func (r *Doctors) Update(id int64, name, email string) (domain.Doctor, error) {
	if err := utils.ValidateName("name", name); err != nil {
		return domain.Doctor{}, err
	}

	doctor := domain.Doctor{ID: id, Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if !r.replace(doctor) {
		return domain.Doctor{}, fmt.Errorf("医生 %d: %w", id, domain.ErrNotFound)
	}
	return doctor, nil
}
