// cmd/order-queue/main.go
package main

import (
	"context"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"warehouse/internal/pkg/bootstrap"
	"warehouse/internal/pkg/database"
	"warehouse/internal/service/orderqueue/application"
	"warehouse/internal/service/orderqueue/domain"
	"warehouse/internal/service/orderqueue/infrastructure"
	"warehouse/internal/service/orderqueue/interfaces"
)

const serviceName = "order-queue"

func main() {
	cfg := bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.OrderQueue.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, err := newRepository(appCtx)
			if err != nil {
				return err
			}
			svc := application.NewOrderQueueService(repo, appCtx.Tracer)
			interfaces.NewOrderQueueHandler(svc).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

// newRepository 根据 store.driver 组装仓储，数据库连接在关停时释放。
func newRepository(appCtx bootstrap.AppCtx) (domain.OrderRepository, error) {
	switch driver := appCtx.Config.Store.Driver; driver {
	case "memory":
		zlog.Warn().Msg("Using in-memory order store, orders are lost on restart.")
		return infrastructure.NewMemoryOrderRepository(), nil
	case "mysql":
		db, err := database.Open(context.Background(), appCtx.Config.Infra.MySQL)
		if err != nil {
			return nil, err
		}
		appCtx.OnShutdown(func(context.Context) error { return database.Close(db) })
		return infrastructure.NewGormOrderRepository(db)
	default:
		return nil, fmt.Errorf("store driver %q is not supported by %s", driver, serviceName)
	}
}
