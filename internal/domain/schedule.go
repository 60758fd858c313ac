package domain

import "time"

const (
	WeekLayout  = "02 Jan 2006" // weekStart / weekEnd
	DateLayout  = "02-01-06"    // DaySection.Date
	DaysPerWeek = 7
)

type CellDoctor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RoomCell struct {
	RoomID   int64       `json:"roomId"`
	RoomName string      `json:"roomName"`
	Doctor   *CellDoctor `json:"doctor"` // nil 表示该单元格尚未分配医生
}

type ShiftRow struct {
	ShiftID   int64      `json:"shiftId"`
	ShiftName string     `json:"shiftName"`
	Rooms     []RoomCell `json:"rooms"`
}

type DaySection struct {
	Day    string     `json:"day"`
	Date   string     `json:"date"`
	Shifts []ShiftRow `json:"shifts"`
}

type ScheduleGrid struct {
	WeekStart string       `json:"weekStart"`
	WeekEnd   string       `json:"weekEnd"`
	Data      []DaySection `json:"data"`
}

// CellKey 唯一确定一个 (day, shift, room) 单元格，day 为星期名称
type CellKey struct {
	Day     string `json:"day"`
	ShiftID int64  `json:"shiftId"`
	RoomID  int64  `json:"roomId"`
}

func (g *ScheduleGrid) StartDate() (time.Time, error) {
	return time.Parse(WeekLayout, g.WeekStart)
}

func (g *ScheduleGrid) CellCount() int {
	n := 0
	for _, day := range g.Data {
		for _, row := range day.Shifts {
			n += len(row.Rooms)
		}
	}
	return n
}

// Clone 返回深拷贝
func (g *ScheduleGrid) Clone() *ScheduleGrid {
	if g == nil {
		return nil
	}

	out := &ScheduleGrid{
		WeekStart: g.WeekStart,
		WeekEnd:   g.WeekEnd,
		Data:      make([]DaySection, len(g.Data)),
	}

	for i, day := range g.Data {
		out.Data[i] = DaySection{
			Day:    day.Day,
			Date:   day.Date,
			Shifts: make([]ShiftRow, len(day.Shifts)),
		}
		for j, row := range day.Shifts {
			out.Data[i].Shifts[j] = ShiftRow{
				ShiftID:   row.ShiftID,
				ShiftName: row.ShiftName,
				Rooms:     make([]RoomCell, len(row.Rooms)),
			}
			for k, cell := range row.Rooms {
				if cell.Doctor != nil {
					doctor := *cell.Doctor
					cell.Doctor = &doctor
				}
				out.Data[i].Shifts[j].Rooms[k] = cell
			}
		}
	}

	return out
}
