package main

import (
	adhoc "LineCrossServer/Adhoc"
	"LineCrossServer/config"
	"LineCrossServer/engine"
	backend "LineCrossServer/gRPC"
	iface "LineCrossServer/interface"
	"LineCrossServer/logger"
	"LineCrossServer/monitor"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	configPath  = flag.String("config", "config.yaml", "Path to the YAML config file")
	replayPath  = flag.String("replay", "", "Replay a JSON-lines frame capture instead of serving")
	annotate    = flag.String("annotate", "", "Write annotated snapshots during replay: go or cv")
	annotateDir = flag.String("annotate-dir", ".", "Output directory for replay snapshots")
)

func GetOutboundIP() (string, error) {
	// 8.8.8.8 是 Google DNS，这里只是为了建立路由路径得到本地出口 IP
	// 实际并没有真正的物理连接，所以不需要联网也可以（只要有路由表）
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP.String(), nil
}

func main() {
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogMode); err != nil {
		fmt.Println("Failed to init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	mon := monitor.New()
	callback, policy, err := newCallback(cfg, mon)
	if err != nil {
		logger.Log().Fatal("invalid callback configuration", zap.Error(err))
	}

	fmt.Println(strings.Repeat("#", 64))
	fmt.Println(" Line      :", cfg.LineConfig().P1, "->", cfg.LineConfig().P2)
	fmt.Println(" Red side  :", policy.RedSide, " red if crossing:", policy.RedIfCrossing)
	fmt.Println(" Labels    :", cfg.Labels)
	fmt.Println(strings.Repeat("#", 64))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *replayPath != "" {
		code := replay(ctx, cfg, callback, mon)
		cancel()
		logger.Sync()
		os.Exit(code)
	}

	var wg sync.WaitGroup
	if cfg.UseRegServer {
		ip, err := GetOutboundIP()
		if err != nil {
			logger.Log().Warn("Failed to get outbound IP", zap.Error(err))
		}
		reg := adhoc.RegServerConfig{}
		reg.SetAddress(cfg.RegServerHost, cfg.RegServerPort)
		wg.Add(1)
		go adhoc.NewHeartbeat(reg, ip, cfg.RPCPort, callback).SendAliveMessage(ctx, &wg)
	} else {
		logger.Log().Info("UseRegServer is set to false, skipping registration")
	}

	go mon.StartMon(cfg.MonitorPort, ctx)

	grpcServer, err := backend.StartGRPCServer(cfg.RPCPort, &backend.Server{Processor: callback, Monitor: mon})
	if err != nil {
		logger.Log().Fatal("Failed to start gRPC server", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: newFrameAPI(callback, mon).router(),
	}
	go func() {
		logger.Log().Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log().Error("HTTP server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Log().Warn("Shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
	defer stop()
	_ = httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	wg.Wait()
	logger.Log().Info("Safely exited", zap.Uint64("frames", callback.FrameIndex()))
}

func newCallback(cfg config.Config, mon *monitor.Monitor) (*engine.Callback, iface.Policy, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, iface.Policy{}, err
	}
	callback, err := engine.New(engine.Options{
		Line:      cfg.LineConfig(),
		Policy:    policy,
		Labels:    cfg.Labels,
		ReportAll: cfg.ReportAll,
		Overlay:   cfg.Overlay,
		Sink:      logger.NewSink(nil),
		Observer:  mon,
	})
	if err != nil {
		return nil, iface.Policy{}, err
	}
	return callback, policy, nil
}

func replay(ctx context.Context, cfg config.Config, callback *engine.Callback, mon *monitor.Monitor) int {
	f, err := os.Open(*replayPath)
	if err != nil {
		logger.Log().Error("Failed to open replay file", zap.Error(err))
		return 1
	}
	defer f.Close()
	palette, err := cfg.Palette()
	if err != nil {
		logger.Log().Error("invalid palette configuration", zap.Error(err))
		return 1
	}
	r := &replayer{proc: callback, mon: mon, palette: palette, annotate: *annotate, outDir: *annotateDir}
	n, err := r.run(ctx, f)
	if err != nil {
		logger.Log().Error("Replay stopped", zap.Int("frames", n), zap.Error(err))
		return 1
	}
	logger.Log().Info("Replay finished", zap.Int("frames", n))
	return 0
}
