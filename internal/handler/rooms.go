package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

func (h *Handler) GetAllRooms(w http.ResponseWriter, r *http.Request) {
	listResponse(h, w, r, "获取所有房间成功", h.service.ListRooms(), domain.Room.DisplayName)
}

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string         `json:"name" validate:"required,max=100"`
		BlockID domain.LooseID `json:"blockId" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	room, err := h.service.AddRoom(req.Name, int64(req.BlockID))
	if err != nil {
		h.serviceError(w, r, err, room)
		return
	}

	h.successResponse(w, r, "创建房间成功", room)
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(RoomCtx).(domain.Room)

	h.successResponse(w, r, "获取房间成功", room)
}

func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(RoomCtx).(domain.Room)

	var req struct {
		Name    *string         `json:"name" validate:"omitempty,max=100"`
		BlockID *domain.LooseID `json:"blockId" validate:"omitempty,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.BlockID != nil {
		room.BlockID = int64(*req.BlockID)
	}

	room, err := h.service.UpdateRoom(room.ID, room.Name, room.BlockID)
	if err != nil {
		h.serviceError(w, r, err, room)
		return
	}

	h.successResponse(w, r, "更新房间成功", room)
}

func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(RoomCtx).(domain.Room)

	if err := h.service.RemoveRoom(room.ID); err != nil {
		h.serviceError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "删除房间成功", nil)
}
