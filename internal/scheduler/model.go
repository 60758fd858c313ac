package scheduler

import "github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"

// cellIndex: (day, shiftID, roomID) -> 指向网格中单元格的指针
type cellIndex map[domain.CellKey]*domain.RoomCell

// indexGrid 建立单元格索引，索引中的指针直接指向 grid 内部的切片元素，
// 因此 grid 在索引存活期间不能再 append
func indexGrid(grid *domain.ScheduleGrid) cellIndex {
	idx := make(cellIndex)
	if grid == nil {
		return idx
	}

	for i := range grid.Data {
		day := &grid.Data[i]
		for j := range day.Shifts {
			row := &day.Shifts[j]
			for k := range row.Rooms {
				cell := &row.Rooms[k]
				idx[domain.CellKey{Day: day.Day, ShiftID: row.ShiftID, RoomID: cell.RoomID}] = cell
			}
		}
	}

	return idx
}
