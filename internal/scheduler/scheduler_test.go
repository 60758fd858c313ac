package scheduler

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

var sunday = time.Date(2025, time.February, 9, 0, 0, 0, 0, time.UTC)

func sampleRooms() []domain.Room {
	return []domain.Room{
		{ID: 1, Name: "R1", BlockID: 1, BlockName: "B1"},
		{ID: 2, Name: "R2", BlockID: 1, BlockName: "B1"},
	}
}

func sampleShifts() []domain.Shift {
	return []domain.Shift{
		{ID: 10, StartTime: "09:00", EndTime: "13:00"},
		{ID: 11, StartTime: "14:00", EndTime: "15:00"},
		{ID: 12, StartTime: "17:00", EndTime: "18:00"},
	}
}

func sampleDoctors() []domain.Doctor {
	return []domain.Doctor{
		{ID: 5, Name: "Dr John"},
		{ID: 6, Name: "Dr Sarah"},
	}
}

func findCell(t *testing.T, grid *domain.ScheduleGrid, key domain.CellKey) (domain.RoomCell, bool) {
	t.Helper()
	for _, day := range grid.Data {
		if day.Day != key.Day {
			continue
		}
		for _, row := range day.Shifts {
			if row.ShiftID != key.ShiftID {
				continue
			}
			for _, cell := range row.Rooms {
				if cell.RoomID == key.RoomID {
					return cell, true
				}
			}
		}
	}
	return domain.RoomCell{}, false
}

func TestBuild_SingleRoomSingleShift(t *testing.T) {
	rooms := []domain.Room{{ID: 1, Name: "R1", BlockName: "B1"}}
	shifts := []domain.Shift{{ID: 10, StartTime: "09:00", EndTime: "13:00"}}

	grid := Build(sunday, rooms, shifts, nil, nil)

	if grid.WeekStart != "09 Feb 2025" || grid.WeekEnd != "15 Feb 2025" {
		t.Errorf("unexpected week range: %s - %s", grid.WeekStart, grid.WeekEnd)
	}
	if len(grid.Data) != 7 {
		t.Fatalf("expected 7 day sections, got %d", len(grid.Data))
	}

	wantDays := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	for i, day := range grid.Data {
		if day.Day != wantDays[i] {
			t.Errorf("day %d: expected %s, got %s", i, wantDays[i], day.Day)
		}
		if len(day.Shifts) != 1 || len(day.Shifts[0].Rooms) != 1 {
			t.Fatalf("day %s: expected exactly 1 row with 1 cell, got %+v", day.Day, day.Shifts)
		}
		cell := day.Shifts[0].Rooms[0]
		if cell.RoomID != 1 || cell.Doctor != nil {
			t.Errorf("day %s: unexpected cell %+v", day.Day, cell)
		}
	}

	if grid.Data[0].Date != "09-02-25" || grid.Data[6].Date != "15-02-25" {
		t.Errorf("unexpected dates: %s .. %s", grid.Data[0].Date, grid.Data[6].Date)
	}
	if grid.Data[0].Shifts[0].ShiftName != "9:00 AM - 1:00 PM" {
		t.Errorf("unexpected shift name %q", grid.Data[0].Shifts[0].ShiftName)
	}
}

func TestBuild_GridCompleteness(t *testing.T) {
	rooms, shifts := sampleRooms(), sampleShifts()
	grid := Build(sunday, rooms, shifts, nil, nil)

	if got, want := grid.CellCount(), 7*len(shifts)*len(rooms); got != want {
		t.Fatalf("expected %d cells, got %d", want, got)
	}

	seen := make(map[domain.CellKey]bool)
	for _, day := range grid.Data {
		for j, row := range day.Shifts {
			if row.ShiftID != shifts[j].ID {
				t.Errorf("shift order broken at %d: %d", j, row.ShiftID)
			}
			for k, cell := range row.Rooms {
				if cell.RoomID != rooms[k].ID {
					t.Errorf("room order broken at %d: %d", k, cell.RoomID)
				}
				key := domain.CellKey{Day: day.Day, ShiftID: row.ShiftID, RoomID: cell.RoomID}
				if seen[key] {
					t.Errorf("duplicate cell %+v", key)
				}
				seen[key] = true
			}
		}
	}
}

func TestBuild_TruncatesTimeOfDay(t *testing.T) {
	grid := Build(sunday.Add(15*time.Hour+30*time.Minute), sampleRooms(), sampleShifts(), nil, nil)
	if grid.WeekStart != "09 Feb 2025" {
		t.Errorf("expected 09 Feb 2025, got %s", grid.WeekStart)
	}
}

func TestBuild_EmptyRegistries(t *testing.T) {
	noRooms := Build(sunday, nil, sampleShifts(), nil, nil)
	for _, day := range noRooms.Data {
		if len(day.Shifts) != 3 {
			t.Fatalf("expected 3 rows without rooms, got %d", len(day.Shifts))
		}
		for _, row := range day.Shifts {
			if row.Rooms == nil || len(row.Rooms) != 0 {
				t.Errorf("expected empty non-nil rooms, got %#v", row.Rooms)
			}
		}
	}

	noShifts := Build(sunday, sampleRooms(), nil, nil, nil)
	if len(noShifts.Data) != 7 {
		t.Fatalf("expected 7 day sections, got %d", len(noShifts.Data))
	}
	for _, day := range noShifts.Data {
		if day.Shifts == nil || len(day.Shifts) != 0 {
			t.Errorf("expected empty non-nil shifts, got %#v", day.Shifts)
		}
	}
}

func TestBuild_PreservesValidAssignments(t *testing.T) {
	rooms, shifts, doctors := sampleRooms(), sampleShifts(), sampleDoctors()
	store := NewStore(Build(sunday, rooms, shifts, doctors, nil))

	key := domain.CellKey{Day: "Wednesday", ShiftID: 11, RoomID: 2}
	if _, err := store.Assign(key, doctors[1]); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	rebuilt := Build(sunday, rooms, shifts, doctors, store.Snapshot())
	cell, ok := findCell(t, rebuilt, key)
	if !ok {
		t.Fatalf("cell %+v missing after rebuild", key)
	}
	if cell.Doctor == nil || cell.Doctor.ID != 6 || cell.Doctor.Name != "Dr Sarah" {
		t.Errorf("assignment lost: %+v", cell.Doctor)
	}

	assigned := 0
	for _, day := range rebuilt.Data {
		for _, row := range day.Shifts {
			for _, c := range row.Rooms {
				if c.Doctor != nil {
					assigned++
				}
			}
		}
	}
	if assigned != 1 {
		t.Errorf("expected exactly 1 assigned cell, got %d", assigned)
	}
}

func TestBuild_RefreshesRenamedEntities(t *testing.T) {
	rooms, shifts, doctors := sampleRooms(), sampleShifts(), sampleDoctors()
	store := NewStore(Build(sunday, rooms, shifts, doctors, nil))

	key := domain.CellKey{Day: "Monday", ShiftID: 10, RoomID: 1}
	store.Assign(key, doctors[0])

	rooms[0].Name = "Consult 1"
	shifts[0].EndTime = "12:30"
	doctors[0].Name = "Dr. John Smith"

	rebuilt := Build(sunday, rooms, shifts, doctors, store.Snapshot())
	cell, _ := findCell(t, rebuilt, key)
	if cell.RoomName != "Consult 1" {
		t.Errorf("room name not refreshed: %q", cell.RoomName)
	}
	if cell.Doctor == nil || cell.Doctor.Name != "Dr. John Smith" {
		t.Errorf("doctor name not refreshed: %+v", cell.Doctor)
	}
	if got := rebuilt.Data[1].Shifts[0].ShiftName; got != "9:00 AM - 12:30 PM" {
		t.Errorf("shift name not refreshed: %q", got)
	}
}

func TestBuild_DropsDanglingShift(t *testing.T) {
	rooms, shifts, doctors := sampleRooms(), sampleShifts(), sampleDoctors()
	store := NewStore(Build(sunday, rooms, shifts, doctors, nil))
	store.Assign(domain.CellKey{Day: "Friday", ShiftID: 11, RoomID: 1}, doctors[0])

	remaining := []domain.Shift{shifts[0], shifts[2]}
	rebuilt := Build(sunday, rooms, remaining, doctors, store.Snapshot())

	for _, day := range rebuilt.Data {
		for _, row := range day.Shifts {
			if row.ShiftID == 11 {
				t.Fatalf("shift 11 still present on %s", day.Day)
			}
		}
	}
	if got, want := rebuilt.CellCount(), 7*2*2; got != want {
		t.Errorf("expected %d cells, got %d", want, got)
	}
}

func TestBuild_DoctorDeletedClearsAssignment(t *testing.T) {
	rooms := []domain.Room{{ID: 1, Name: "R1", BlockName: "B1"}}
	shifts := []domain.Shift{{ID: 10, StartTime: "09:00", EndTime: "13:00"}}
	doctors := []domain.Doctor{{ID: 5, Name: "Dr John"}}

	store := NewStore(Build(sunday, rooms, shifts, doctors, nil))
	key := domain.CellKey{Day: "Sunday", ShiftID: 10, RoomID: 1}

	cell, err := store.Assign(key, doctors[0])
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if cell.Doctor == nil || *cell.Doctor != (domain.CellDoctor{ID: 5, Name: "Dr John"}) {
		t.Fatalf("unexpected cell after assign: %+v", cell)
	}

	rebuilt := Build(sunday, rooms, shifts, nil, store.Snapshot())
	cell, ok := findCell(t, rebuilt, key)
	if !ok {
		t.Fatal("cell must survive doctor deletion")
	}
	if cell.Doctor != nil {
		t.Errorf("expected doctor null, got %+v", cell.Doctor)
	}
}

func TestBuild_RoomDeletedLeavesEmptyRows(t *testing.T) {
	rooms := []domain.Room{{ID: 1, Name: "R1", BlockName: "B1"}}
	shifts := []domain.Shift{{ID: 10, StartTime: "09:00", EndTime: "13:00"}}

	previous := Build(sunday, rooms, shifts, nil, nil)
	rebuilt := Build(sunday, nil, shifts, nil, previous)

	for _, day := range rebuilt.Data {
		if len(day.Shifts) != 1 || day.Shifts[0].ShiftID != 10 {
			t.Fatalf("%s: expected the shift row to remain, got %+v", day.Day, day.Shifts)
		}
		if n := len(day.Shifts[0].Rooms); n != 0 {
			t.Errorf("%s: expected zero cells, got %d", day.Day, n)
		}
	}
}

func TestBuild_CarriesAssignmentsAcrossWeeks(t *testing.T) {
	rooms, shifts, doctors := sampleRooms(), sampleShifts(), sampleDoctors()
	store := NewStore(Build(sunday, rooms, shifts, doctors, nil))
	key := domain.CellKey{Day: "Tuesday", ShiftID: 12, RoomID: 2}
	store.Assign(key, doctors[0])

	next := Build(sunday.AddDate(0, 0, 7), rooms, shifts, doctors, store.Snapshot())
	if next.WeekStart != "16 Feb 2025" {
		t.Errorf("unexpected week start %s", next.WeekStart)
	}
	cell, _ := findCell(t, next, key)
	if cell.Doctor == nil || cell.Doctor.ID != 5 {
		t.Errorf("assignment not carried into next week: %+v", cell)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	rooms, shifts, doctors := sampleRooms(), sampleShifts(), sampleDoctors()
	previous := Build(sunday, rooms, shifts, doctors, nil)
	previous.Data[2].Shifts[1].Rooms[0].Doctor = &domain.CellDoctor{ID: 6, Name: "Dr Sarah"}

	a := Build(sunday, rooms, shifts, doctors, previous)
	b := Build(sunday, rooms, shifts, doctors, previous)
	if !reflect.DeepEqual(a, b) {
		t.Error("Build must return identical grids for identical input")
	}
}

func TestBuild_JSONRoundTrip(t *testing.T) {
	rooms, shifts, doctors := sampleRooms(), sampleShifts(), sampleDoctors()
	grid := Build(sunday, rooms, shifts, doctors, nil)
	grid.Data[0].Shifts[0].Rooms[1].Doctor = &domain.CellDoctor{ID: 5, Name: "Dr John"}

	data, err := json.Marshal(grid)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded domain.ScheduleGrid
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(grid, &decoded) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", grid, &decoded)
	}
}

func TestMostRecentSunday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday itself", sunday.Add(10 * time.Hour), sunday},
		{"wednesday", time.Date(2025, 2, 12, 8, 0, 0, 0, time.UTC), sunday},
		{"saturday", time.Date(2025, 2, 15, 23, 59, 0, 0, time.UTC), sunday},
		{"across month", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MostRecentSunday(tt.in); !got.Equal(tt.want) {
				t.Errorf("MostRecentSunday(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
