// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"warehouse/internal/pkg/config"
	"warehouse/internal/pkg/logger"
	"warehouse/internal/pkg/nacos"
	"warehouse/internal/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

type AppCtx struct {
	Mux    *http.ServeMux
	Config *config.Config
	Tracer trace.Tracer
	// OnShutdown 注册的函数在 HTTP 服务器和所有后台任务退出后按后进先出的顺序执行。
	OnShutdown func(fn func(ctx context.Context) error)
	// Go 注册一个与 HTTP 服务器并行运行的后台任务，收到退出信号时 ctx 被取消。
	// 任务返回错误会让整个服务退出。
	Go func(fn func(ctx context.Context) error)
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName string
	Port        int
	// RegisterHandlers 允许每个服务注册自己独特的 HTTP 路由，返回错误时服务不会启动。
	RegisterHandlers func(appCtx AppCtx) error
	// Unlisted 为 true 时不注册到 Nacos，用于没有对外 API、只跑后台任务的服务。
	Unlisted bool
}

// shouldRegister 判断服务是否需要出现在 Nacos 的服务列表里
func shouldRegister(nc config.NacosConfig, info AppInfo) bool {
	return nc.Enabled() && !info.Unlisted
}

// Init 加载配置并初始化日志。配置错误直接退出进程。
func Init(serviceName string) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, "info")
		zlog.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(serviceName, cfg.App.LogLevel)
	return cfg
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := config.GetCurrentConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, info); err != nil {
		zlog.Fatal().Err(err).Msgf("service %s stopped with error", info.ServiceName)
	}
	zlog.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}

func run(ctx context.Context, cfg *config.Config, info AppInfo) error {
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	var cleanups []func(ctx context.Context) error
	onShutdown := func(fn func(ctx context.Context) error) {
		cleanups = append(cleanups, fn)
	}
	onShutdown(tp.Shutdown)

	var workers []func(ctx context.Context) error

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	if info.RegisterHandlers != nil {
		appCtx := AppCtx{
			Mux:        mux,
			Config:     cfg,
			Tracer:     otel.Tracer(info.ServiceName),
			OnShutdown: onShutdown,
			Go: func(fn func(ctx context.Context) error) {
				workers = append(workers, fn)
			},
		}
		if err := info.RegisterHandlers(appCtx); err != nil {
			runCleanups(cleanups)
			return err
		}
	}

	if shouldRegister(cfg.Infra.Nacos, info) {
		if err := registerWithNacos(cfg.Infra.Nacos, info, onShutdown); err != nil {
			runCleanups(cleanups)
			return err
		}
	}

	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: logger.Middleware(mux)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info().Msgf("%s listening on :%d", info.ServiceName, info.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on %s: %w", server.Addr, err)
		}
		return nil
	})
	for _, worker := range workers {
		g.Go(func() error { return worker(gctx) })
	}
	g.Go(func() error {
		// 阻塞直到接收到退出信号、服务器或后台任务异常退出
		<-gctx.Done()
		zlog.Info().Msgf("Shutting down service %s...", info.ServiceName)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Error().Err(err).Msg("Error shutting down http server")
		} else {
			zlog.Info().Msg("HTTP server shut down.")
		}
		return nil
	})
	err = g.Wait()
	runCleanups(cleanups)
	return err
}

func registerWithNacos(nc config.NacosConfig, info AppInfo, onShutdown func(func(context.Context) error)) error {
	client, err := nacos.NewClient(nc)
	if err != nil {
		return fmt.Errorf("failed to initialize nacos client: %w", err)
	}
	ip, err := getOutboundIP()
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to get outbound IP address: %w", err)
	}
	inst := nacos.Instance{Service: info.ServiceName, IP: ip, Port: info.Port}
	if err := client.Register(inst); err != nil {
		client.Close()
		return err
	}
	onShutdown(func(context.Context) error {
		defer client.Close()
		return client.Deregister(inst)
	})
	return nil
}

// runCleanups 按后进先出的顺序执行清理操作
func runCleanups(cleanups []func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](ctx); err != nil {
			zlog.Error().Err(err).Msg("cleanup failed during shutdown")
		}
	}
}

// getOutboundIP 通过一个 UDP "连接" 找到本机对外的 IP，不会真正发包。
func getOutboundIP() (string, error) {
	if ip := os.Getenv("POD_IP"); ip != "" {
		return ip, nil
	}
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
