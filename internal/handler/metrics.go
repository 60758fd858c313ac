package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "room_schedule"

// Metrics 同时实现 service.Observer
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rebuilds        prometheus.Counter
	cells           prometheus.Gauge
	assignments     *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	notifyFailures  prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "已处理的 HTTP 请求数",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "grid_rebuilds_total",
			Help:      "排班网格重建次数",
		}),
		cells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "grid_cells",
			Help:      "当前网格中的单元格数量",
		}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "assignments_total",
			Help:      "医生分配与移除次数",
		}, []string{"action"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "persistence_failures_total",
			Help:      "数据块保存失败次数",
		}, []string{"key"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "已投递的排班通知数",
		}, []string{"type"}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notification_failures_total",
			Help:      "排班通知投递失败次数",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.rebuilds,
		m.cells,
		m.assignments,
		m.persistFailures,
		m.notifications,
		m.notifyFailures,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) GridRebuilt(cells int) {
	m.rebuilds.Inc()
	m.cells.Set(float64(cells))
}

func (m *Metrics) AssignmentChanged(action string) {
	m.assignments.WithLabelValues(action).Inc()
}

func (m *Metrics) PersistenceFailed(key string) {
	m.persistFailures.WithLabelValues(key).Inc()
}
