package main

import (
	"LineCrossServer/engine"
	iface "LineCrossServer/interface"
	"LineCrossServer/logger"
	"LineCrossServer/monitor"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type session struct {
	id        string
	conn      *websocket.Conn
	started   time.Time
	frames    int
	closeOnce sync.Once
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}

type frameAPI struct {
	proc     iface.FrameProcessor
	mon      *monitor.Monitor
	upgrader websocket.Upgrader

	sessionMu sync.RWMutex
	sessions  map[string]*session
}

func newFrameAPI(proc iface.FrameProcessor, mon *monitor.Monitor) *frameAPI {
	return &frameAPI{
		proc: proc,
		mon:  mon,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: map[string]*session{},
	}
}

func (a *frameAPI) count(transport string) {
	if a.mon != nil {
		a.mon.Request(transport)
	}
}

func (a *frameAPI) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.POST("/api/frames", a.postFrame)
	r.GET("/api/status", a.status)
	r.GET("/ws", a.stream)
	if a.mon != nil {
		r.GET("/metrics", gin.WrapH(a.mon.Handler()))
	}
	return r
}

func (a *frameAPI) postFrame(c *gin.Context) {
	a.count("http")
	var payload iface.FramePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result := a.proc.ProcessFrame(payload.ToFrame())
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (a *frameAPI) status(c *gin.Context) {
	a.sessionMu.RLock()
	active := len(a.sessions)
	a.sessionMu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"frameIndex": a.proc.FrameIndex(),
		"state":      engine.StateName(a.proc.State()),
		"line":       a.proc.LineDescriptor(),
		"sessions":   active,
	}})
}

// stream 每条文本消息是一帧 JSON，回复一条 result
func (a *frameAPI) stream(c *gin.Context) {
	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// 升级失败，不要再写 JSON
		logger.Log().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(4 * 1024 * 1024)
	s := &session{id: uuid.New().String(), conn: conn, started: time.Now()}
	a.sessionMu.Lock()
	a.sessions[s.id] = s
	a.sessionMu.Unlock()
	defer func() {
		a.sessionMu.Lock()
		delete(a.sessions, s.id)
		a.sessionMu.Unlock()
		s.close()
		logger.Log().Info("websocket session closed", zap.String("session", s.id), zap.Int("frames", s.frames))
	}()

	if err := conn.WriteJSON(wsMessage{Type: "session", Data: gin.H{"id": s.id}}); err != nil {
		return
	}
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			// 客户端断开或读取错误，释放会话
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Log().Warn("websocket read error", zap.String("session", s.id), zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			_ = conn.WriteJSON(wsMessage{Type: "error", Data: "unsupported message type"})
			continue
		}
		a.count("ws")
		var payload iface.FramePayload
		if err := json.Unmarshal(msg, &payload); err != nil {
			_ = conn.WriteJSON(wsMessage{Type: "error", Data: "invalid frame payload: " + err.Error()})
			continue
		}
		s.frames++
		if err := conn.WriteJSON(wsMessage{Type: "result", Data: a.proc.ProcessFrame(payload.ToFrame())}); err != nil {
			return
		}
	}
}
