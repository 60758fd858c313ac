package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

type State string

const (
	StateIdle         State = "idle"
	StateCellSelected State = "cellSelected"
)

type DoctorDirectory interface {
	Get(id int64) (domain.Doctor, bool)
}

type Selection struct {
	State  State              `json:"state"`
	Cell   *domain.CellKey    `json:"cell"`
	Doctor *domain.CellDoctor `json:"doctor"` // 选中时单元格上的医生
}

// Controller 负责“点击单元格 -> 选择/移除医生”的交互，同一时刻最多只有一个选中的单元格
type Controller struct {
	store   *Store
	doctors DoctorDirectory

	state   State
	key     domain.CellKey
	current *domain.CellDoctor
}

func NewController(store *Store, doctors DoctorDirectory) *Controller {
	return &Controller{
		store:   store,
		doctors: doctors,
		state:   StateIdle,
	}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Selection() Selection {
	if c.state != StateCellSelected {
		return Selection{State: StateIdle}
	}

	key := c.key
	sel := Selection{State: c.state, Cell: &key}
	if c.current != nil {
		doctor := *c.current
		sel.Doctor = &doctor
	}
	return sel
}

// SelectCell 会直接替换之前的选择，当前分配以存储中的为准
func (c *Controller) SelectCell(key domain.CellKey) (Selection, error) {
	cell, ok := c.store.Cell(key)
	if !ok {
		return c.Selection(), fmt.Errorf("单元格 %s/%d/%d: %w", key.Day, key.ShiftID, key.RoomID, domain.ErrNotFound)
	}

	c.state = StateCellSelected
	c.key = key
	c.current = cell.Doctor

	return c.Selection(), nil
}

// ConfirmAssignment 成功或失败后都会回到 Idle，只有“没有选中单元格”时状态不变
func (c *Controller) ConfirmAssignment(doctorID int64) (domain.CellKey, domain.RoomCell, error) {
	if c.state != StateCellSelected {
		return domain.CellKey{}, domain.RoomCell{}, domain.ErrNoSelection
	}

	key := c.key
	doctor, ok := c.doctors.Get(doctorID)
	if !ok {
		c.reset()
		return key, domain.RoomCell{}, fmt.Errorf("医生 %d: %w", doctorID, domain.ErrDoctorNotFound)
	}

	cell, err := c.store.Assign(key, doctor)
	c.reset()
	if err != nil {
		return key, domain.RoomCell{}, err
	}

	return key, cell, nil
}

// ConfirmRemoval 要求选中的单元格当前确实分配了医生
func (c *Controller) ConfirmRemoval() (domain.CellKey, domain.RoomCell, error) {
	if c.state != StateCellSelected {
		return domain.CellKey{}, domain.RoomCell{}, domain.ErrNoSelection
	}

	key := c.key
	cell, ok := c.store.Cell(key)
	if !ok {
		c.reset()
		return key, domain.RoomCell{}, fmt.Errorf("单元格 %s/%d/%d: %w", key.Day, key.ShiftID, key.RoomID, domain.ErrNotFound)
	}
	if cell.Doctor == nil {
		return key, cell, domain.ErrNothingToRemove
	}

	if _, err := c.store.Unassign(key); err != nil {
		c.reset()
		return key, domain.RoomCell{}, err
	}
	c.reset()

	// 返回移除之前的单元格，调用方需要用它来通知医生
	return key, cell, nil
}

func (c *Controller) Cancel() {
	c.reset()
}

// Revalidate 在网格重建后调用：选中的单元格已经不存在时回到 Idle
func (c *Controller) Revalidate() {
	if c.state != StateCellSelected {
		return
	}
	cell, ok := c.store.Cell(c.key)
	if !ok {
		c.reset()
		return
	}
	c.current = cell.Doctor
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.key = domain.CellKey{}
	c.current = nil
}
