// internal/pkg/nacos/client.go
package nacos

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/model"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
	zlog "github.com/rs/zerolog/log"

	"warehouse/internal/pkg/config"
)

const defaultGroup = "DEFAULT_GROUP"

// Instance 是仓储服务在注册中心里的一个 HTTP 实例
type Instance struct {
	Service string
	IP      string
	Port    int
}

// BaseURL 返回实例的 http 根地址，不带结尾的 "/"
func (i Instance) BaseURL() string {
	return "http://" + net.JoinHostPort(i.IP, strconv.Itoa(i.Port))
}

func (i Instance) String() string {
	return fmt.Sprintf("%s@%s:%d", i.Service, i.IP, i.Port)
}

// namingAPI 是 naming_client.INamingClient 中用到的部分，测试里可以替换
type namingAPI interface {
	RegisterInstance(param vo.RegisterInstanceParam) (bool, error)
	DeregisterInstance(param vo.DeregisterInstanceParam) (bool, error)
	SelectOneHealthyInstance(param vo.SelectOneHealthInstanceParam) (*model.Instance, error)
	CloseClient()
}

// Client 负责仓储服务的注册、注销和健康实例发现
type Client struct {
	naming namingAPI
	group  string
}

// ParseServerConfigs 解析 "ip1:port1,ip2:port2" 格式的地址列表。
func ParseServerConfigs(addrs string) ([]constant.ServerConfig, error) {
	var servers []constant.ServerConfig
	for _, addr := range strings.Split(addrs, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		host, p, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid nacos address %q: %w", addr, err)
		}
		port, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid port in nacos address %q", addr)
		}
		servers = append(servers, *constant.NewServerConfig(host, port))
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("no nacos address in %q", addrs)
	}
	return servers, nil
}

// NewClient 根据 infra.nacos 配置创建命名客户端。分组为空时使用 DEFAULT_GROUP。
func NewClient(c config.NacosConfig) (*Client, error) {
	servers, err := ParseServerConfigs(c.ServerAddrs)
	if err != nil {
		return nil, err
	}
	if c.Namespace == "" {
		zlog.Warn().Msg("Nacos namespace not set, using the public namespace.")
	}

	clientConfig := constant.NewClientConfig(
		constant.WithNamespaceId(c.Namespace),
		constant.WithNotLoadCacheAtStart(true),
		constant.WithLogDir("/tmp/warehouse/nacos/log"),
		constant.WithCacheDir("/tmp/warehouse/nacos/cache"),
		constant.WithLogLevel("warn"),
	)
	naming, err := clients.NewNamingClient(vo.NacosClientParam{
		ClientConfig:  clientConfig,
		ServerConfigs: servers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create nacos naming client: %w", err)
	}

	zlog.Info().Str("addrs", c.ServerAddrs).Str("namespace", c.Namespace).Msg("✅ Connected to Nacos.")
	return newClient(naming, c.Group), nil
}

func newClient(naming namingAPI, group string) *Client {
	if group == "" {
		group = defaultGroup
	}
	return &Client{naming: naming, group: group}
}

// Register 以临时实例注册，进程退出、心跳中断后由 Nacos 自动摘除。
func (c *Client) Register(inst Instance) error {
	ok, err := c.naming.RegisterInstance(vo.RegisterInstanceParam{
		ServiceName: inst.Service,
		GroupName:   c.group,
		Ip:          inst.IP,
		Port:        uint64(inst.Port),
		Weight:      1,
		Enable:      true,
		Healthy:     true,
		Ephemeral:   true,
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", inst, err)
	}
	if !ok {
		return fmt.Errorf("register %s: rejected by nacos", inst)
	}
	zlog.Info().Stringer("instance", inst).Str("group", c.group).Msg("✅ Registered with Nacos.")
	return nil
}

func (c *Client) Deregister(inst Instance) error {
	if _, err := c.naming.DeregisterInstance(vo.DeregisterInstanceParam{
		ServiceName: inst.Service,
		GroupName:   c.group,
		Ip:          inst.IP,
		Port:        uint64(inst.Port),
		Ephemeral:   true,
	}); err != nil {
		return fmt.Errorf("deregister %s: %w", inst, err)
	}
	zlog.Info().Stringer("instance", inst).Msg("Deregistered from Nacos.")
	return nil
}

// Discover 按 Nacos 的权重随机选出一个健康实例
func (c *Client) Discover(service string) (Instance, error) {
	picked, err := c.naming.SelectOneHealthyInstance(vo.SelectOneHealthInstanceParam{
		ServiceName: service,
		GroupName:   c.group,
	})
	if err != nil {
		return Instance{}, fmt.Errorf("discover %s: %w", service, err)
	}
	if picked == nil {
		return Instance{}, fmt.Errorf("discover %s: no healthy instance", service)
	}
	return Instance{Service: service, IP: picked.Ip, Port: int(picked.Port)}, nil
}

func (c *Client) Close() {
	c.naming.CloseClient()
}
