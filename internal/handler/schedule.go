package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/service"
)

type cellRequest struct {
	Day     string `json:"day" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	ShiftID int64  `json:"shiftId" validate:"required,gt=0"`
	RoomID  int64  `json:"roomId" validate:"required,gt=0"`
}

func (c cellRequest) key() domain.CellKey {
	return domain.CellKey{Day: c.Day, ShiftID: c.ShiftID, RoomID: c.RoomID}
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取排班表成功", h.service.Schedule())
}

func (h *Handler) SetWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart string `json:"weekStart" validate:"required"` // DD-MM-YYYY 或 YYYY-MM-DD
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := time.ParseInLocation(config.WeekStartLayout, req.WeekStart, time.Local)
	if err != nil {
		start, err = time.ParseInLocation(time.DateOnly, req.WeekStart, time.Local)
	}
	if err != nil {
		h.errorResponse(w, r, "日期格式错误，应为 DD-MM-YYYY")
		return
	}

	grid, err := h.service.SetWeekStart(start)
	if err != nil {
		h.serviceError(w, r, err, grid)
		return
	}

	h.successResponse(w, r, "切换周次成功", grid)
}

func (h *Handler) RebuildSchedule(w http.ResponseWriter, r *http.Request) {
	grid, err := h.service.Rebuild()
	if err != nil {
		h.serviceError(w, r, err, grid)
		return
	}

	h.successResponse(w, r, "重建排班表成功", grid)
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取当前选择成功", h.service.Selection())
}

func (h *Handler) SelectCell(w http.ResponseWriter, r *http.Request) {
	var req cellRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sel, err := h.service.SelectCell(req.key())
	if err != nil {
		h.serviceError(w, r, err, sel)
		return
	}

	h.successResponse(w, r, "选择单元格成功", sel)
}

func (h *Handler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	h.service.CancelSelection()

	h.successResponse(w, r, "已取消选择", h.service.Selection())
}

func (h *Handler) ConfirmAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorID int64 `json:"doctorId" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	a, err := h.service.ConfirmAssignment(req.DoctorID)
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		h.serviceError(w, r, err, nil)
		return
	}

	// 持久化失败时分配已经在内存中生效，仍然通知医生
	h.notify(r, a)

	if err != nil {
		h.serviceError(w, r, err, a)
		return
	}
	h.successResponse(w, r, "分配医生成功", a)
}

func (h *Handler) ConfirmRemoval(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.ConfirmRemoval()
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		h.serviceError(w, r, err, nil)
		return
	}

	h.notify(r, a)

	if err != nil {
		h.serviceError(w, r, err, a)
		return
	}
	h.successResponse(w, r, "移除医生成功", a)
}

// UnassignCell 直接清空单元格，不需要先选择
func (h *Handler) UnassignCell(w http.ResponseWriter, r *http.Request) {
	var req cellRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	a, changed, err := h.service.Unassign(req.key())
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		h.serviceError(w, r, err, nil)
		return
	}

	if changed {
		h.notify(r, a)
	}

	if err != nil {
		h.serviceError(w, r, err, a)
		return
	}
	if !changed {
		h.successResponse(w, r, "该单元格尚未分配医生", service.Assignment{Action: service.ActionUnassign, Key: req.key()})
		return
	}
	h.successResponse(w, r, "移除医生成功", a)
}
