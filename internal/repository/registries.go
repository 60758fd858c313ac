package repository

import "github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"

func (r *Repository) SaveBlocks(blocks []domain.Block) error {
	return r.write(KeyBlocks, blocks)
}

func (r *Repository) SaveRooms(rooms []domain.Room) error {
	return r.write(KeyRooms, rooms)
}

func (r *Repository) SaveShifts(shifts []domain.Shift) error {
	return r.write(KeyShifts, shifts)
}

func (r *Repository) SaveDoctors(doctors []domain.Doctor) error {
	return r.write(KeyDoctors, doctors)
}

func (r *Repository) SaveSequences(seq Sequences) error {
	return r.write(KeySequences, seq)
}
