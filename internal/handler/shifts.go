package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	listResponse(h, w, r, "获取所有班次成功", h.service.ListShifts(), domain.Shift.DisplayName)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.service.AddShift(req.StartTime, req.EndTime)
	if err != nil {
		h.serviceError(w, r, err, shift)
		return
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(domain.Shift)

	h.successResponse(w, r, "获取班次成功", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(domain.Shift)

	var req struct {
		StartTime *string `json:"startTime"`
		EndTime   *string `json:"endTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}

	shift, err := h.service.UpdateShift(shift.ID, shift.StartTime, shift.EndTime)
	if err != nil {
		h.serviceError(w, r, err, shift)
		return
	}

	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(domain.Shift)

	if err := h.service.RemoveShift(shift.ID); err != nil {
		h.serviceError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}
