package repository

import "github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"

func (r *Repository) SaveSchedule(grid *domain.ScheduleGrid) error {
	return r.write(KeySchedule, grid)
}
