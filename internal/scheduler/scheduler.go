package scheduler

import (
	"time"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

// Build 根据当前的房间、班次、医生注册表构建 weekStart 起连续 7 天的排班网格。
//
// previous 中已有的分配按以下规则合并：
//  1. 班次或房间已被删除的单元格直接丢弃；
//  2. 医生已被删除的单元格保留，但分配被清空；
//  3. 其余分配原样保留，医生名称以注册表中的最新名称为准。
//
// 单元格按星期名称匹配，所以切换周次后分配会沿用到新的一周。
// Build 不读取参数以外的任何状态，相同的输入总是得到相同的输出。
func Build(weekStart time.Time, rooms []domain.Room, shifts []domain.Shift, doctors []domain.Doctor, previous *domain.ScheduleGrid) *domain.ScheduleGrid {
	start := StartOfDay(weekStart)

	prev := indexGrid(previous)
	doctorMap := make(map[int64]domain.Doctor, len(doctors))
	for _, doctor := range doctors {
		doctorMap[doctor.ID] = doctor
	}

	grid := &domain.ScheduleGrid{
		WeekStart: start.Format(domain.WeekLayout),
		WeekEnd:   start.AddDate(0, 0, domain.DaysPerWeek-1).Format(domain.WeekLayout),
		Data:      make([]domain.DaySection, 0, domain.DaysPerWeek),
	}

	for i := 0; i < domain.DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		section := domain.DaySection{
			Day:    date.Weekday().String(),
			Date:   date.Format(domain.DateLayout),
			Shifts: make([]domain.ShiftRow, 0, len(shifts)),
		}

		for _, shift := range shifts {
			row := domain.ShiftRow{
				ShiftID:   shift.ID,
				ShiftName: shift.Name(),
				Rooms:     make([]domain.RoomCell, 0, len(rooms)),
			}

			for _, room := range rooms {
				cell := domain.RoomCell{
					RoomID:   room.ID,
					RoomName: room.Name,
				}

				key := domain.CellKey{Day: section.Day, ShiftID: shift.ID, RoomID: room.ID}
				if old, exists := prev[key]; exists && old.Doctor != nil {
					if doctor, ok := doctorMap[old.Doctor.ID]; ok {
						cell.Doctor = &domain.CellDoctor{ID: doctor.ID, Name: doctor.Name}
					}
				}

				row.Rooms = append(row.Rooms, cell)
			}

			section.Shifts = append(section.Shifts, row)
		}

		grid.Data = append(grid.Data, section)
	}

	return grid
}
