// internal/service/orchestrator/infrastructure/adapter/resolver.go
package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/pkg/nacos"
	"warehouse/internal/service/orchestrator/port"
)

// StaticResolver 使用配置中的固定地址
type StaticResolver map[string]string

// NewStaticResolver 用两个服务的 base URL 构建解析器
func NewStaticResolver(orderQueueURL, stockLedgerURL string) StaticResolver {
	return StaticResolver{
		port.OrderQueueService:  strings.TrimRight(orderQueueURL, "/"),
		port.StockLedgerService: strings.TrimRight(stockLedgerURL, "/"),
	}
}

func (r StaticResolver) Resolve(_ context.Context, service string) (string, error) {
	base, ok := r[service]
	if !ok || base == "" {
		return "", fmt.Errorf("no address configured for service %q", service)
	}
	return base, nil
}

// InstanceDiscoverer 是 nacos.Client 中用于服务发现的部分
type InstanceDiscoverer interface {
	Discover(service string) (nacos.Instance, error)
}

// NacosResolver 每次调用都从 Nacos 选一个健康实例，发现失败时退回到 fallback。
type NacosResolver struct {
	discoverer InstanceDiscoverer
	fallback   port.Resolver
}

func NewNacosResolver(discoverer InstanceDiscoverer, fallback port.Resolver) *NacosResolver {
	return &NacosResolver{discoverer: discoverer, fallback: fallback}
}

func (r *NacosResolver) Resolve(ctx context.Context, service string) (string, error) {
	inst, err := r.discoverer.Discover(service)
	if err == nil {
		return inst.BaseURL(), nil
	}
	if r.fallback == nil {
		return "", errors.Wrapf(err, "resolve %s", service)
	}
	logger.Ctx(ctx).Warn().Err(err).Str("target_service", service).Msg("Nacos discovery failed, using configured address")
	return r.fallback.Resolve(ctx, service)
}
