package monitor

import (
	iface "LineCrossServer/interface"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_ObserveFrame(t *testing.T) {
	m := New()
	m.ObserveFrame(iface.FrameSummary{FrameIndex: 1, Detections: 3, Crossings: 1, Red: 2}, time.Millisecond)
	m.ObserveFrame(iface.FrameSummary{FrameIndex: 2, Detections: 2, Skipped: 2}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.frameIndex))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.detections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.crossings))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.red))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skipped))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestMonitor_Request(t *testing.T) {
	m := New()
	m.Request("http")
	m.Request("http")
	m.Request("grpc")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("http")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("grpc")))
}

func TestMonitor_Handler(t *testing.T) {
	m := New()
	m.CheckProcessInfo()
	m.ObserveFrame(iface.FrameSummary{FrameIndex: 7}, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "linecross_frame_index 7")
	assert.Contains(t, string(body), "linecross_frames_total 1")
}
