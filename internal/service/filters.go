package service

import (
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/search"
)

// LiveFilter 自带锁，这里不需要持有 s.mu

// setQuery 的 immediate 为 true 时跳过防抖，例如用户在搜索框中按下回车
func setQuery[T any](f *search.LiveFilter[T], query string, immediate bool) {
	f.SetQuery(query)
	if immediate {
		f.Flush()
	}
}

func (s *Service) SetBlockFilter(query string, immediate bool) {
	setQuery(s.blockFilter, query, immediate)
}

func (s *Service) BlockFilter() search.View[domain.Block] { return s.blockFilter.View() }

func (s *Service) SetRoomFilter(query string, immediate bool) {
	setQuery(s.roomFilter, query, immediate)
}

func (s *Service) RoomFilter() search.View[domain.Room] { return s.roomFilter.View() }

func (s *Service) SetShiftFilter(query string, immediate bool) {
	setQuery(s.shiftFilter, query, immediate)
}

func (s *Service) ShiftFilter() search.View[domain.Shift] { return s.shiftFilter.View() }

func (s *Service) SetDoctorFilter(query string, immediate bool) {
	setQuery(s.doctorFilter, query, immediate)
}

func (s *Service) DoctorFilter() search.View[domain.Doctor] { return s.doctorFilter.View() }
