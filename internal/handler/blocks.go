package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

func (h *Handler) GetAllBlocks(w http.ResponseWriter, r *http.Request) {
	listResponse(h, w, r, "获取所有楼栋成功", h.service.ListBlocks(), domain.Block.DisplayName)
}

func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	block, err := h.service.AddBlock(req.Name)
	if err != nil {
		h.serviceError(w, r, err, block)
		return
	}

	h.successResponse(w, r, "创建楼栋成功", block)
}

func (h *Handler) GetBlock(w http.ResponseWriter, r *http.Request) {
	block := r.Context().Value(BlockCtx).(domain.Block)

	h.successResponse(w, r, "获取楼栋成功", block)
}

func (h *Handler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	block := r.Context().Value(BlockCtx).(domain.Block)

	var req struct {
		Name *string `json:"name" validate:"omitempty,max=100"`
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
		block.Name = *req.Name
	}

	block, err := h.service.UpdateBlock(block.ID, block.Name)
	if err != nil {
		h.serviceError(w, r, err, block)
		return
	}

	h.successResponse(w, r, "更新楼栋成功", block)
}

func (h *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	block := r.Context().Value(BlockCtx).(domain.Block)

	if err := h.service.RemoveBlock(block.ID); err != nil {
		h.serviceError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "删除楼栋成功", nil)
}
