// cmd/orchestrator/main.go
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"time"

	zlog "github.com/rs/zerolog/log"

	"warehouse/internal/pkg/bootstrap"
	"warehouse/internal/pkg/config"
	"warehouse/internal/pkg/httpclient"
	"warehouse/internal/pkg/mq"
	"warehouse/internal/pkg/nacos"
	"warehouse/internal/service/orchestrator/application"
	"warehouse/internal/service/orchestrator/domain"
	"warehouse/internal/service/orchestrator/infrastructure/adapter"
	"warehouse/internal/service/orchestrator/infrastructure/rule"
	"warehouse/internal/service/orchestrator/port"
)

const serviceName = "orchestrator"

// main 函数是编排器的"组装根"：HTTP 端口只暴露 /healthz 和 /metrics，编排循环作为后台任务运行。
func main() {
	cfg := bootstrap.Init(serviceName)

	metricsPort, err := portFromAddr(cfg.Orchestrator.MetricsAddr)
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid metrics address")
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        metricsPort,
		Unlisted:    true,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			loop, err := buildLoop(appCtx)
			if err != nil {
				return err
			}
			appCtx.Go(loop.Run)
			return nil
		},
	})
}

func buildLoop(appCtx bootstrap.AppCtx) (*application.Loop, error) {
	oc := appCtx.Config.Orchestrator

	client := httpclient.NewClient(appCtx.Tracer,
		httpclient.WithPool(appCtx.Config.Infra.HTTP.MaxIdleConns, appCtx.Config.Infra.HTTP.MaxIdleConnsPerHost),
		httpclient.WithTimeout(oc.CallTimeout),
	)

	resolver, err := newResolver(appCtx)
	if err != nil {
		return nil, err
	}

	replenish, err := rule.NewCELReplenishRule(oc.ReplenishRule)
	if err != nil {
		return nil, err
	}

	seed := uint64(time.Now().UnixNano())
	synth := domain.NewSynthesizer(rand.New(rand.NewPCG(seed, seed>>1)), oc.MalformedOneIn)

	return application.NewLoop(
		adapter.NewOrderQueueHTTPAdapter(client, resolver),
		adapter.NewStockLedgerHTTPAdapter(client, resolver),
		newPublisher(appCtx),
		replenish,
		synth,
		appCtx.Tracer,
		application.Settings{
			Interval:           oc.Interval,
			LowWaterMark:       oc.LowWaterMark,
			ReplenishAmount:    oc.ReplenishAmount,
			ValidateQuantities: oc.ValidateQuantities,
		},
	), nil
}

// newResolver 配置了 Nacos 时优先走服务发现，发现失败退回到静态地址。
func newResolver(appCtx bootstrap.AppCtx) (port.Resolver, error) {
	oc := appCtx.Config.Orchestrator
	static := adapter.NewStaticResolver(oc.OrderQueueURL, oc.StockLedgerURL)

	nc := appCtx.Config.Infra.Nacos
	if !nc.Enabled() {
		return static, nil
	}
	client, err := nacos.NewClient(nc)
	if err != nil {
		return nil, err
	}
	appCtx.OnShutdown(func(context.Context) error {
		client.Close()
		return nil
	})
	return adapter.NewNacosResolver(client, static), nil
}

func newPublisher(appCtx bootstrap.AppCtx) port.EventPublisher {
	kc := appCtx.Config.Infra.Kafka
	if len(kc.Brokers) == 0 {
		zlog.Info().Msg("Kafka brokers not configured, orchestration events are not published.")
		return adapter.NoopEventPublisher{}
	}
	writer := mq.NewKafkaWriter(kc.Brokers, kc.Topic)
	appCtx.OnShutdown(func(context.Context) error { return writer.Close() })
	zlog.Info().Strs("brokers", kc.Brokers).Str("topic", kc.Topic).Msg("✅ Publishing orchestration events to Kafka.")
	return adapter.NewKafkaEventPublisher(writer)
}

func portFromAddr(addr string) (int, error) {
	if addr == "" {
		addr = config.Default().Orchestrator.MetricsAddr
	}
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", addr, err)
	}
	return strconv.Atoi(p)
}
