package monitor

import (
	iface "LineCrossServer/interface"
	"LineCrossServer/logger"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

const namespace = "linecross"

// Monitor owns its registry, so several instances can coexist in tests.
type Monitor struct {
	registry *prometheus.Registry
	pid      *process.Process

	memUsage   prometheus.Gauge
	cpuUsage   prometheus.Gauge
	frameIndex prometheus.Gauge
	requests   *prometheus.CounterVec
	frames     prometheus.Counter
	detections prometheus.Counter
	crossings  prometheus.Counter
	red        prometheus.Counter
	skipped    prometheus.Counter
	latency    prometheus.Histogram
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}

func New() *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		pid:      &process.Process{Pid: int32(os.Getpid())},
		memUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memory_usage_Megabytes",
			Help: "Memory usage in Megabytes",
		}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpu_usage_percent",
			Help: "CPU usage in percent",
		}),
		frameIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_index",
			Help:      "Index of the most recently processed frame",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Frames received, by transport",
		}, []string{"transport"}),
		frames:     counter("frames_total", "Frames processed"),
		detections: counter("detections_total", "Detections seen"),
		crossings:  counter("crossings_total", "Detections whose box crosses the line"),
		red:        counter("red_total", "Detections classified red"),
		skipped:    counter("skipped_total", "Detections left unclassified"),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_seconds",
			Help:      "Time spent in the frame callback",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
	}
	m.registry.MustRegister(m.memUsage, m.cpuUsage, m.frameIndex, m.requests,
		m.frames, m.detections, m.crossings, m.red, m.skipped, m.latency)
	return m
}

// ObserveFrame implements iface.FrameObserver.
func (m *Monitor) ObserveFrame(s iface.FrameSummary, elapsed time.Duration) {
	m.frames.Inc()
	m.frameIndex.Set(float64(s.FrameIndex))
	m.detections.Add(float64(s.Detections))
	m.crossings.Add(float64(s.Crossings))
	m.red.Add(float64(s.Red))
	m.skipped.Add(float64(s.Skipped))
	m.latency.Observe(elapsed.Seconds())
}

// Request counts one inbound frame on the named transport (http, ws, grpc, replay).
func (m *Monitor) Request(transport string) {
	m.requests.WithLabelValues(transport).Inc()
}

func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Monitor) CheckProcessInfo() {
	memInfo, err := m.pid.MemoryInfo()
	if err == nil {
		m.memUsage.Set(float64(memInfo.RSS / 1024 / 1024))
	}
	cpuPercent, err := m.pid.CPUPercent()
	if err == nil {
		m.cpuUsage.Set(math.Round(cpuPercent*100) / 100)
	}
}

// StartMon serves /metrics on port and samples the process until ctx is done.
func (m *Monitor) StartMon(port int, ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log().Error("Prometheus server ListenAndServe error", zap.Error(err))
		}
	}()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
checkPcs:
	for {
		select {
		case <-ctx.Done():
			break checkPcs
		case <-ticker.C:
			m.CheckProcessInfo()
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log().Error("Prometheus server Shutdown error", zap.Error(err))
	}
}
