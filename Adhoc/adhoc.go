package Adhoc

import (
	iface "LineCrossServer/interface"
	"LineCrossServer/logger"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	LineCrossInstance = 0x2010
	TimeOutSeconds    = 5
)

type RegisterRequest struct {
	Id            string `json:"id"`
	IP            string `json:"ip"`
	Port          int    `json:"port"`
	InstanceClass int    `json:"instanceClass"`
	TimeStamp     int64  `json:"timestamp"`
	State         int    `json:"state"`
	FrameIndex    uint64 `json:"frameIndex"`
	Line          string `json:"line"`
}

type RegisterResponse struct {
	Id      string `json:"id"`
	Success bool   `json:"success"`
}

type RegServerConfig struct {
	Port int
	Addr string
}

func (reg *RegServerConfig) SetAddress(addr string, port int) {
	reg.Addr = addr
	reg.Port = port
}

// Heartbeat registers this instance with the registry server and keeps it alive.
type Heartbeat struct {
	ID        string
	IP        string
	Port      int
	Processor iface.FrameProcessor
	Interval  time.Duration

	url    string
	client *resty.Client
}

func NewHeartbeat(reg RegServerConfig, ip string, port int, proc iface.FrameProcessor) *Heartbeat {
	return &Heartbeat{
		ID:        uuid.NewString(),
		IP:        ip,
		Port:      port,
		Processor: proc,
		Interval:  TimeOutSeconds * time.Second,
		url:       fmt.Sprintf("http://%s:%d/api/register", reg.Addr, reg.Port),
		client:    resty.New().SetTimeout(TimeOutSeconds * time.Second), // 总超时
	}
}

func (h *Heartbeat) request() RegisterRequest {
	req := RegisterRequest{
		Id:            h.ID,
		IP:            h.IP,
		Port:          h.Port,
		InstanceClass: LineCrossInstance,
		TimeStamp:     time.Now().Unix(),
	}
	if h.Processor != nil {
		req.State = h.Processor.State()
		req.FrameIndex = h.Processor.FrameIndex()
		req.Line = h.Processor.LineDescriptor()
	}
	return req
}

// Beat sends one registration. A panic in the request is recovered and reported as an error.
func (h *Heartbeat) Beat(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("heartbeat panic recovered: %v", r)
		}
	}()
	var respBody RegisterResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(h.request()).
		SetResult(&respBody). // 2xx 自动反序列化到 respBody
		Post(h.url)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	// 检查 HTTP 状态码
	if resp.IsError() {
		return fmt.Errorf("server returned error: %s, body: %s", resp.Status(), resp.String())
	}
	if !respBody.Success {
		return fmt.Errorf("registration rejected for %s", h.ID)
	}
	return nil
}

// SendAliveMessage beats immediately and then every Interval until ctx is cancelled.
func (h *Heartbeat) SendAliveMessage(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()
	beat := func() {
		if err := h.Beat(ctx); err != nil {
			logger.Log().Error("heartbeat failed", zap.String("id", h.ID), zap.Error(err))
		}
	}
	beat()
	for {
		select {
		case <-ctx.Done():
			logger.Log().Info("SendAliveMessage context cancelled, exiting goroutine.")
			return
		case <-ticker.C:
			beat()
		}
	}
}
