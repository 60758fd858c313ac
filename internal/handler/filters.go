package handler

import "net/http"

type filterRequest struct {
	Query     string `json:"query" validate:"max=100"`
	Immediate bool   `json:"immediate"` // 为 true 时不等待防抖
}

// readFilter 返回 false 时已经写入了错误响应
func (h *Handler) readFilter(w http.ResponseWriter, r *http.Request) (filterRequest, bool) {
	var req filterRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return req, false
	}
	return req, true
}

func (h *Handler) GetBlockFilter(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取楼栋过滤结果成功", h.service.BlockFilter())
}

func (h *Handler) SetBlockFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readFilter(w, r)
	if !ok {
		return
	}
	h.service.SetBlockFilter(req.Query, req.Immediate)
	h.successResponse(w, r, "已更新过滤条件", h.service.BlockFilter())
}

func (h *Handler) GetRoomFilter(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取房间过滤结果成功", h.service.RoomFilter())
}

func (h *Handler) SetRoomFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readFilter(w, r)
	if !ok {
		return
	}
	h.service.SetRoomFilter(req.Query, req.Immediate)
	h.successResponse(w, r, "已更新过滤条件", h.service.RoomFilter())
}

func (h *Handler) GetShiftFilter(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取班次过滤结果成功", h.service.ShiftFilter())
}

func (h *Handler) SetShiftFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readFilter(w, r)
	if !ok {
		return
	}
	h.service.SetShiftFilter(req.Query, req.Immediate)
	h.successResponse(w, r, "已更新过滤条件", h.service.ShiftFilter())
}

func (h *Handler) GetDoctorFilter(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取医生过滤结果成功", h.service.DoctorFilter())
}

func (h *Handler) SetDoctorFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readFilter(w, r)
	if !ok {
		return
	}
	h.service.SetDoctorFilter(req.Query, req.Immediate)
	h.successResponse(w, r, "已更新过滤条件", h.service.DoctorFilter())
}
