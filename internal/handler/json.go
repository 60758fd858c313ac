package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/search"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "requestId", requestIDFrom(r), "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// serviceError 把 service 返回的错误转换成响应。
// 持久化失败时变更已经在内存中生效，因此仍然返回 data。
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error, data any) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.errorResponse(w, r, validationErr.Message)
	case errors.Is(err, domain.ErrDoctorNotFound):
		h.errorResponse(w, r, "所选医生已被删除，请重新选择")
	case errors.Is(err, domain.ErrNotFound):
		h.errorResponse(w, r, "记录不存在，请刷新后重试")
	case errors.Is(err, domain.ErrNoSelection), errors.Is(err, domain.ErrNothingToRemove):
		h.errorResponse(w, r, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		slog.Error("变更未能持久化", "method", r.Method, "path", r.URL.Path, "requestId", requestIDFrom(r), "error", err)
		h.writeJSON(w, r, http.StatusOK, Response{
			Success: false,
			Message: "变更已生效但未能保存，重启后可能丢失",
			Data:    data,
		})
	default:
		h.internalServerError(w, r, err)
	}
}

// listResponse 处理列表接口的 ?q= 和 ?page= 参数，未指定 page 时返回全部记录
func listResponse[T any](h *Handler, w http.ResponseWriter, r *http.Request, msg string, items []T, name func(T) string) {
	filtered := search.Filter(items, r.URL.Query().Get("q"), name)

	size := 0
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			h.errorResponse(w, r, "页码无效")
			return
		}
		page = n
		size = h.config.Schedule.PageSize
	}

	h.successResponse(w, r, msg, search.Paginate(filtered, page, size))
}
