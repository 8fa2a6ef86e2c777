// cmd/stock-ledger/main.go
package main

import (
	"context"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"warehouse/internal/pkg/bootstrap"
	"warehouse/internal/pkg/database"
	"warehouse/internal/pkg/redis"
	"warehouse/internal/service/stockledger/application"
	"warehouse/internal/service/stockledger/domain"
	"warehouse/internal/service/stockledger/infrastructure"
	"warehouse/internal/service/stockledger/interfaces"
)

const serviceName = "stock-ledger"

func main() {
	cfg := bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.StockLedger.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, err := newRepository(appCtx)
			if err != nil {
				return err
			}

			hub := interfaces.NewStreamHub(appCtx.Config.StockLedger.StreamBacklog)
			appCtx.OnShutdown(func(context.Context) error {
				hub.Close()
				return nil
			})

			svc := application.NewStockLedgerService(repo, appCtx.Tracer, hub)
			if err := svc.SeedDefaults(context.Background(), appCtx.Config.StockLedger.SeedQuantity); err != nil {
				return fmt.Errorf("failed to seed stock: %w", err)
			}
			interfaces.NewStockLedgerHandler(svc, hub).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

// newRepository 根据 store.driver 组装仓储，连接在关停时释放。
func newRepository(appCtx bootstrap.AppCtx) (domain.StockRepository, error) {
	switch driver := appCtx.Config.Store.Driver; driver {
	case "memory":
		zlog.Warn().Msg("Using in-memory stock store, levels reset on restart.")
		return infrastructure.NewMemoryStockRepository(), nil
	case "redis":
		client, err := redis.NewClient(context.Background(), appCtx.Config.Infra.Redis)
		if err != nil {
			return nil, err
		}
		appCtx.OnShutdown(func(context.Context) error { return client.Close() })
		return infrastructure.NewRedisStockRepository(client), nil
	case "mysql":
		db, err := database.Open(context.Background(), appCtx.Config.Infra.MySQL)
		if err != nil {
			return nil, err
		}
		appCtx.OnShutdown(func(context.Context) error { return database.Close(db) })
		return infrastructure.NewGormStockRepository(db)
	default:
		return nil, fmt.Errorf("store driver %q is not supported by %s", driver, serviceName)
	}
}
