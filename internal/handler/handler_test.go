package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/search"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/service"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/storage"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []domain.MailMessage
}

func (p *recordingPublisher) Publish(_ context.Context, msg domain.MailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

type brokenStore struct {
	*storage.Memory
	broken bool
}

func (b *brokenStore) Put(ctx context.Context, key string, data []byte) error {
	if b.broken {
		return errors.New("storage unavailable")
	}
	return b.Memory.Put(ctx, key, data)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	handler   *Handler
	publisher *recordingPublisher
}

func newTestServer(t *testing.T, blobs storage.Store) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.OperationTimeout = 5
	cfg.Schedule.PageSize = 2
	cfg.Schedule.SearchDebounceMs = 10
	cfg.Schedule.WeekStart = "09-02-2025"
	cfg.RabbitMQ.PublishTimeout = 1

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := NewMetrics()
	svc, err := service.New(cfg, repository.NewRepository(cfg, blobs, logger), logger, service.WithObserver(metrics))
	if err != nil {
		t.Fatalf("service.New failed: %v", err)
	}
	t.Cleanup(svc.Close)

	pub := &recordingPublisher{}
	h, err := NewHandler(cfg, svc, pub, metrics)
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	h.RegisterRoutes()

	return &testServer{handler: h, publisher: pub}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid envelope %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestBlocksCRUD(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())

	_, env := s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "Old Building"})
	if !env.Success {
		t.Fatalf("create failed: %s", env.Message)
	}
	block := decode[domain.Block](t, env.Data)
	if block.ID == 0 || block.Name != "Old Building" {
		t.Errorf("unexpected block %+v", block)
	}

	s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "New Building"})
	s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "Annex"})

	_, env = s.do(t, http.MethodGet, "/blocks?page=2", nil)
	page := decode[search.Page[domain.Block]](t, env.Data)
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 1 || page.Items[0].Name != "Annex" {
		t.Errorf("unexpected page %+v", page)
	}

	_, env = s.do(t, http.MethodGet, "/blocks?q=building", nil)
	page = decode[search.Page[domain.Block]](t, env.Data)
	if page.Total != 2 || len(page.Items) != 2 {
		t.Errorf("unexpected search result %+v", page)
	}

	_, env = s.do(t, http.MethodPatch, "/blocks/1", map[string]string{"name": "Main Building"})
	if !env.Success || decode[domain.Block](t, env.Data).Name != "Main Building" {
		t.Errorf("update failed: %+v", env)
	}

	_, env = s.do(t, http.MethodDelete, "/blocks/1", nil)
	if !env.Success {
		t.Errorf("delete failed: %s", env.Message)
	}
	_, env = s.do(t, http.MethodGet, "/blocks/1", nil)
	if env.Success || env.Message != "楼栋不存在" {
		t.Errorf("expected not found, got %+v", env)
	}

	_, env = s.do(t, http.MethodGet, "/blocks/abc", nil)
	if env.Success || env.Message != "楼栋ID无效" {
		t.Errorf("expected invalid id, got %+v", env)
	}
}

func TestCreateBlock_Validation(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())

	_, env := s.do(t, http.MethodPost, "/blocks", map[string]string{"name": ""})
	if env.Success || env.Message == "" {
		t.Errorf("expected translated validation message, got %+v", env)
	}

	_, env = s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "   "})
	if env.Success || !strings.Contains(env.Message, "不能为空") {
		t.Errorf("expected blank name rejection, got %+v", env)
	}
}

func TestCreateRoom_StringBlockID(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())
	s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "B1"})

	_, env := s.do(t, http.MethodPost, "/rooms", map[string]any{"name": "R1", "blockId": "1"})
	if !env.Success {
		t.Fatalf("create room failed: %s", env.Message)
	}
	room := decode[domain.Room](t, env.Data)
	if room.BlockID != 1 || room.BlockName != "B1" {
		t.Errorf("unexpected room %+v", room)
	}

	_, env = s.do(t, http.MethodPost, "/rooms", map[string]any{"name": "R2", "blockId": 9})
	if env.Success {
		t.Error("expected failure for unknown block")
	}
}

func TestCreateShift_InvalidTimes(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())

	_, env := s.do(t, http.MethodPost, "/shifts", map[string]string{"startTime": "13:00", "endTime": "09:00"})
	if env.Success || !strings.Contains(env.Message, "结束时间") {
		t.Errorf("expected end-before-start rejection, got %+v", env)
	}

	_, env = s.do(t, http.MethodPost, "/shifts", map[string]string{"startTime": "09:00", "endTime": "13:00"})
	if !env.Success {
		t.Fatalf("create shift failed: %s", env.Message)
	}
	var shift map[string]any
	json.Unmarshal(env.Data, &shift)
	if shift["name"] != "9:00 AM - 1:00 PM" {
		t.Errorf("expected derived name, got %v", shift["name"])
	}
}

func seedSchedule(t *testing.T, s *testServer) {
	t.Helper()
	s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "B1"})
	s.do(t, http.MethodPost, "/rooms", map[string]any{"name": "R1", "blockId": 1})
	s.do(t, http.MethodPost, "/shifts", map[string]string{"startTime": "09:00", "endTime": "13:00"})
}

func TestScheduleSelectionFlow(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())
	seedSchedule(t, s)

	_, env := s.do(t, http.MethodPost, "/doctors", map[string]string{"name": "Dr John", "email": "john@example.com"})
	doctor := decode[domain.Doctor](t, env.Data)

	_, env = s.do(t, http.MethodPost, "/schedule/selection/assign", map[string]any{"doctorId": doctor.ID})
	if env.Success || env.Message != domain.ErrNoSelection.Error() {
		t.Errorf("expected no-selection error, got %+v", env)
	}

	cell := map[string]any{"day": "Sunday", "shiftId": 1, "roomId": 1}
	_, env = s.do(t, http.MethodPost, "/schedule/selection", cell)
	if !env.Success {
		t.Fatalf("select failed: %s", env.Message)
	}

	_, env = s.do(t, http.MethodPost, "/schedule/selection/assign", map[string]any{"doctorId": doctor.ID})
	if !env.Success {
		t.Fatalf("assign failed: %s", env.Message)
	}

	_, env = s.do(t, http.MethodGet, "/schedule", nil)
	grid := decode[domain.ScheduleGrid](t, env.Data)
	if grid.WeekStart != "09 Feb 2025" {
		t.Errorf("unexpected week start %s", grid.WeekStart)
	}
	got := grid.Data[0].Shifts[0].Rooms[0].Doctor
	if got == nil || got.ID != doctor.ID || got.Name != "Dr John" {
		t.Errorf("unexpected doctor in cell: %+v", got)
	}

	if len(s.publisher.messages) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(s.publisher.messages))
	}
	msg := s.publisher.messages[0]
	if msg.Type != domain.MailTypeAssignment || msg.To != "john@example.com" {
		t.Errorf("unexpected message %+v", msg)
	}

	_, env = s.do(t, http.MethodDelete, "/schedule/cells", cell)
	if !env.Success {
		t.Fatalf("unassign failed: %s", env.Message)
	}
	if len(s.publisher.messages) != 2 || s.publisher.messages[1].Type != domain.MailTypeUnassignment {
		t.Errorf("expected unassignment notice, got %+v", s.publisher.messages)
	}

	_, env = s.do(t, http.MethodDelete, "/schedule/cells", cell)
	if !env.Success || len(s.publisher.messages) != 2 {
		t.Errorf("second unassign should be a silent no-op, got %+v", env)
	}
}

func TestSelection_InvalidDay(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())
	seedSchedule(t, s)

	_, env := s.do(t, http.MethodPost, "/schedule/selection", map[string]any{"day": "Someday", "shiftId": 1, "roomId": 1})
	if env.Success {
		t.Error("expected validation failure for unknown day")
	}
}

func TestConfirmRemoval_NothingToRemove(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())
	seedSchedule(t, s)

	s.do(t, http.MethodPost, "/schedule/selection", map[string]any{"day": "Monday", "shiftId": 1, "roomId": 1})
	_, env := s.do(t, http.MethodPost, "/schedule/selection/remove", nil)
	if env.Success || env.Message != domain.ErrNothingToRemove.Error() {
		t.Errorf("expected nothing-to-remove, got %+v", env)
	}

	_, env = s.do(t, http.MethodDelete, "/schedule/selection", nil)
	if !env.Success {
		t.Errorf("cancel failed: %s", env.Message)
	}
}

func TestSetWeek(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())

	_, env := s.do(t, http.MethodPut, "/schedule/week", map[string]string{"weekStart": "16-02-2025"})
	if !env.Success {
		t.Fatalf("set week failed: %s", env.Message)
	}
	if grid := decode[domain.ScheduleGrid](t, env.Data); grid.WeekStart != "16 Feb 2025" || grid.WeekEnd != "22 Feb 2025" {
		t.Errorf("unexpected range %s - %s", grid.WeekStart, grid.WeekEnd)
	}

	_, env = s.do(t, http.MethodPut, "/schedule/week", map[string]string{"weekStart": "next week"})
	if env.Success {
		t.Error("expected failure for malformed date")
	}
}

func TestPersistenceFailureResponse(t *testing.T) {
	blobs := &brokenStore{Memory: storage.NewMemory()}
	s := newTestServer(t, blobs)

	blobs.broken = true
	_, env := s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "B1"})
	if env.Success || !strings.Contains(env.Message, "未能保存") {
		t.Fatalf("expected persistence warning, got %+v", env)
	}
	if block := decode[domain.Block](t, env.Data); block.Name != "B1" {
		t.Errorf("expected in-memory block in data, got %+v", block)
	}

	_, env = s.do(t, http.MethodGet, "/blocks", nil)
	if page := decode[search.Page[domain.Block]](t, env.Data); page.Total != 1 {
		t.Errorf("in-memory state lost: %+v", page)
	}
}

func TestLiveFilterEndpoints(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())
	s.do(t, http.MethodPost, "/doctors", map[string]string{"name": "Dr. Watson"})

	_, env := s.do(t, http.MethodPut, "/doctors/filter", map[string]string{"query": "sarah"})
	if !env.Success {
		t.Fatalf("set filter failed: %s", env.Message)
	}

	time.Sleep(80 * time.Millisecond)

	_, env = s.do(t, http.MethodGet, "/doctors/filter", nil)
	view := decode[search.View[domain.Doctor]](t, env.Data)
	if view.Query != "sarah" || len(view.Items) != 1 || view.Items[0].Name != "Dr. Sarah" {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestLiveFilter_ImmediateAndLiteralWhitespace(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())
	s.do(t, http.MethodPost, "/blocks", map[string]string{"name": "B1"})
	s.do(t, http.MethodPost, "/rooms", map[string]any{"name": "Room 1", "blockId": 1})
	s.do(t, http.MethodPost, "/rooms", map[string]any{"name": "Roomy", "blockId": 1})

	_, env := s.do(t, http.MethodPut, "/rooms/filter", map[string]any{"query": "Room ", "immediate": true})
	view := decode[search.View[domain.Room]](t, env.Data)
	if view.Query != "Room " || len(view.Items) != 1 || view.Items[0].Name != "Room 1" {
		t.Errorf("unexpected view %+v", view)
	}

	_, env = s.do(t, http.MethodGet, "/rooms?q=%20%20%20", nil)
	if page := decode[search.Page[domain.Room]](t, env.Data); page.Total != 0 {
		t.Errorf("blank query should match nothing, got %+v", page)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())

	rec, _ := s.do(t, http.MethodGet, "/blocks", nil)
	if rid := rec.Header().Get("X-Request-ID"); len(rid) != 36 {
		t.Errorf("expected generated uuid, got %q", rid)
	}

	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec = httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)
	if rid := rec.Header().Get("X-Request-ID"); rid != "trace-123" {
		t.Errorf("expected caller request id, got %q", rid)
	}

	req = httptest.NewRequest(http.MethodGet, "/blocks", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 65))
	rec = httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)
	if rid := rec.Header().Get("X-Request-ID"); len(rid) != 36 {
		t.Errorf("oversized request id must be replaced, got %q", rid)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, storage.NewMemory())
	seedSchedule(t, s)

	rec, _ := s.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"room_schedule_http_requests_total",
		"room_schedule_grid_rebuilds_total",
		`route="/blocks/"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
