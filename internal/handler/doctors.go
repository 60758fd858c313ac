package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

func (h *Handler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	listResponse(h, w, r, "获取所有医生成功", h.service.ListDoctors(), domain.Doctor.DisplayName)
}

func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required,max=100"`
		Email string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	doctor, err := h.service.AddDoctor(req.Name, req.Email)
	if err != nil {
		h.serviceError(w, r, err, doctor)
		return
	}

	h.successResponse(w, r, "创建医生成功", doctor)
}

func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor := r.Context().Value(DoctorCtx).(domain.Doctor)

	h.successResponse(w, r, "获取医生成功", doctor)
}

func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctor := r.Context().Value(DoctorCtx).(domain.Doctor)

	var req struct {
		Name  *string `json:"name" validate:"omitempty,max=100"`
		Email *string `json:"email"` // 传空字符串表示清除邮箱
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Email != nil {
		if err := h.validate.Var(*req.Email, "omitempty,email"); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}

	doctor, err := h.service.UpdateDoctor(doctor.ID, doctor.Name, doctor.Email)
	if err != nil {
		h.serviceError(w, r, err, doctor)
		return
	}

	h.successResponse(w, r, "更新医生成功", doctor)
}

// DeleteDoctor 同时清空该医生在排班表中的所有分配
func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	doctor := r.Context().Value(DoctorCtx).(domain.Doctor)

	if err := h.service.RemoveDoctor(doctor.ID); err != nil {
		h.serviceError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "删除医生成功", nil)
}
