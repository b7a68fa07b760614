package main

import (
	"LineCrossServer/engine"
	iface "LineCrossServer/interface"
	"LineCrossServer/monitor"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameJSON = `{"width":100,"height":100,"detections":[` +
	`{"label":"person","confidence":0.9,"bbox":[60,40,80,60],"track_ids":[1]},` +
	`{"label":"person","confidence":0.8,"bbox":[0.4,0.1,0.6,0.3],"normalized":true,"track_ids":[2]}]}`

func newTestAPI(t *testing.T) *frameAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cb, err := engine.New(engine.Options{
		Line:   iface.LineConfig{P1: iface.Point{X: 0.5, Y: 0.1}, P2: iface.Point{X: 0.5, Y: 0.9}},
		Policy: iface.Policy{RedSide: iface.SideRight},
	})
	require.NoError(t, err)
	return newFrameAPI(cb, monitor.New())
}

type frameResponse struct {
	Data struct {
		Summary  iface.FrameSummary `json:"summary"`
		LogLines []struct {
			Text      string `json:"text"`
			Highlight bool   `json:"highlight"`
		} `json:"log_lines"`
	} `json:"data"`
}

func TestFrameAPI_HTTP(t *testing.T) {
	r := newTestAPI(t).router()

	t.Run("Test Ping", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	})

	t.Run("Test PostFrame", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/frames", strings.NewReader(frameJSON)))
		require.Equal(t, http.StatusOK, w.Code)

		var resp frameResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, iface.FrameSummary{FrameIndex: 1, MatchedLabelCount: 2, Detections: 2, Crossings: 1, Red: 1}, resp.Data.Summary)
		require.NotEmpty(t, resp.Data.LogLines)
		assert.Equal(t, "Frame count: 1", resp.Data.LogLines[0].Text)
	})

	t.Run("Test BadFrame", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/frames", strings.NewReader(`{"width":"x"}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Test Status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"frameIndex":1,"state":"running","line":"line=(50,10)->(50,90)","sessions":0}}`, w.Body.String())
	})

	t.Run("Test Metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `linecross_requests_total{transport="http"} 2`)
	})
}

func TestFrameAPI_WebSocket(t *testing.T) {
	srv := httptest.NewServer(newTestAPI(t).router())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var hello struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "session", hello.Type)
	assert.NotEmpty(t, hello.Data["id"])

	for i := 1; i <= 2; i++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frameJSON)))
		var msg struct {
			Type string `json:"type"`
			Data struct {
				Summary iface.FrameSummary `json:"summary"`
			} `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "result", msg.Type)
		assert.Equal(t, uint64(i), msg.Data.Summary.FrameIndex)
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var errMsg wsMessage
	require.NoError(t, conn.ReadJSON(&errMsg))
	assert.Equal(t, "error", errMsg.Type)
}
