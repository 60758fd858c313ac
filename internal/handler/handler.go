package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/service"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	service    *service.Service
	translator ut.Translator
	publisher  Publisher
	metrics    *Metrics

	Mux *chi.Mux
}

// NewHandler 的 publisher 可以为 nil，此时不发送排班通知
func NewHandler(cfg *config.Config, svc *service.Service, publisher Publisher, metrics *Metrics) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		service:    svc,
		translator: trans,
		publisher:  publisher,
		metrics:    metrics,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Handle("/metrics", h.metrics.Handler())

	h.Mux.Route("/blocks", func(r chi.Router) {
		r.Get("/", h.GetAllBlocks)
		r.Post("/", h.CreateBlock)
		r.Get("/filter", h.GetBlockFilter)
		r.Put("/filter", h.SetBlockFilter)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.block)
			r.Get("/", h.GetBlock)
			r.Patch("/", h.UpdateBlock)
			r.Delete("/", h.DeleteBlock)
		})
	})

	h.Mux.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.GetAllRooms)
		r.Post("/", h.CreateRoom)
		r.Get("/filter", h.GetRoomFilter)
		r.Put("/filter", h.SetRoomFilter)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.room)
			r.Get("/", h.GetRoom)
			r.Patch("/", h.UpdateRoom)
			r.Delete("/", h.DeleteRoom)
		})
	})

	h.Mux.Route("/shifts", func(r chi.Router) {
		r.Get("/", h.GetAllShifts)
		r.Post("/", h.CreateShift)
		r.Get("/filter", h.GetShiftFilter)
		r.Put("/filter", h.SetShiftFilter)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.shift)
			r.Get("/", h.GetShift)
			r.Patch("/", h.UpdateShift)
			r.Delete("/", h.DeleteShift)
		})
	})

	h.Mux.Route("/doctors", func(r chi.Router) {
		r.Get("/", h.GetAllDoctors)
		r.Post("/", h.CreateDoctor)
		r.Get("/filter", h.GetDoctorFilter)
		r.Put("/filter", h.SetDoctorFilter)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.doctor)
			r.Get("/", h.GetDoctor)
			r.Patch("/", h.UpdateDoctor)
			r.Delete("/", h.DeleteDoctor)
		})
	})

	h.Mux.Route("/schedule", func(r chi.Router) {
		r.Get("/", h.GetSchedule)
		r.Put("/week", h.SetWeek)
		r.Post("/rebuild", h.RebuildSchedule)
		r.Delete("/cells", h.UnassignCell)
		r.Route("/selection", func(r chi.Router) {
			r.Get("/", h.GetSelection)
			r.Post("/", h.SelectCell)
			r.Delete("/", h.CancelSelection)
			r.Post("/assign", h.ConfirmAssignment)
			r.Post("/remove", h.ConfirmRemoval)
		})
	})
}
