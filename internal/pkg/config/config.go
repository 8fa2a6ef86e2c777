// internal/pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是三个服务共享的配置结构，先从 YAML 文件加载，再由环境变量覆盖。
type Config struct {
	App          AppConfig          `yaml:"app"`
	Infra        InfraConfig        `yaml:"infra"`
	Store        StoreConfig        `yaml:"store"`
	OrderQueue   OrderQueueConfig   `yaml:"order_queue"`
	StockLedger  StockLedgerConfig  `yaml:"stock_ledger"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
}

type AppConfig struct {
	LogLevel string `yaml:"log_level"`
}

type InfraConfig struct {
	Jaeger JaegerConfig `yaml:"jaeger"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Nacos  NacosConfig  `yaml:"nacos"`
	HTTP   HTTPConfig   `yaml:"http"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// MySQLConfig 描述数据库连接，MaxOpenConns 即连接池大小，显式传入而不是全局状态。
type MySQLConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type NacosConfig struct {
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

// Enabled 只有配置了地址时才启用 Nacos 注册与发现。
func (n NacosConfig) Enabled() bool {
	return n.ServerAddrs != ""
}

// HTTPConfig 控制出站 HTTP 客户端的连接池。
type HTTPConfig struct {
	MaxIdleConns        int `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`
}

// StoreConfig 选择存储后端: mysql | redis | memory。
type StoreConfig struct {
	Driver string `yaml:"driver"`
}

type OrderQueueConfig struct {
	Port int `yaml:"port"`
}

type StockLedgerConfig struct {
	Port          int `yaml:"port"`
	SeedQuantity  int `yaml:"seed_quantity"`
	StreamBacklog int `yaml:"stream_backlog"`
}

type OrchestratorConfig struct {
	OrderQueueURL      string        `yaml:"order_queue_url"`
	StockLedgerURL     string        `yaml:"stock_ledger_url"`
	Interval           time.Duration `yaml:"interval"`
	CallTimeout        time.Duration `yaml:"call_timeout"`
	LowWaterMark       int           `yaml:"low_water_mark"`
	ReplenishAmount    int           `yaml:"replenish_amount"`
	ReplenishRule      string        `yaml:"replenish_rule"`
	MalformedOneIn     int           `yaml:"malformed_one_in"`
	ValidateQuantities bool          `yaml:"validate_quantities"`
	MetricsAddr        string        `yaml:"metrics_addr"`
}

var current atomic.Pointer[Config]

// GetCurrentConfig 返回最近一次 Load 的结果，未加载时返回默认配置。
func GetCurrentConfig() *Config {
	if c := current.Load(); c != nil {
		return c
	}
	return Default()
}

// Default 返回所有字段都带默认值的配置。
func Default() *Config {
	return &Config{
		App: AppConfig{LogLevel: "info"},
		Infra: InfraConfig{
			MySQL: MySQLConfig{
				Host:         "mysql",
				Port:         3306,
				User:         "user",
				Password:     "password",
				Database:     "warehouse",
				MaxOpenConns: 10,
				MaxIdleConns: 1,
			},
			Redis: RedisConfig{Addr: "localhost:6379", PoolSize: 10},
			Kafka: KafkaConfig{Topic: "warehouse-events"},
			Nacos: NacosConfig{Group: "DEFAULT_GROUP"},
			HTTP:  HTTPConfig{MaxIdleConns: 100, MaxIdleConnsPerHost: 100},
		},
		Store:       StoreConfig{Driver: "mysql"},
		OrderQueue:  OrderQueueConfig{Port: 8080},
		StockLedger: StockLedgerConfig{Port: 8081, SeedQuantity: 100, StreamBacklog: 64},
		Orchestrator: OrchestratorConfig{
			OrderQueueURL:      "http://order-queue:8080",
			StockLedgerURL:     "http://stock-ledger:8081",
			Interval:           10 * time.Second,
			LowWaterMark:       100,
			ReplenishAmount:    100,
			ReplenishRule:      "quantity < low_water_mark",
			MalformedOneIn:     20,
			ValidateQuantities: true,
			MetricsAddr:        ":9090",
		},
	}
}

// Load 读取 CONFIG_FILE 指向的 YAML（可选），然后应用环境变量覆盖。
func Load() (*Config, error) {
	cfg := Default()
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	current.Store(cfg)
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", c.Infra.Jaeger.Endpoint)

	c.Infra.MySQL.Host = getEnv("MYSQL_HOST", c.Infra.MySQL.Host)
	c.Infra.MySQL.User = getEnv("MYSQL_USER", c.Infra.MySQL.User)
	c.Infra.MySQL.Password = getEnv("MYSQL_PASSWORD", c.Infra.MySQL.Password)
	c.Infra.MySQL.Database = getEnv("MYSQL_DATABASE", c.Infra.MySQL.Database)
	c.Infra.Redis.Addr = getEnv("REDIS_ADDR", c.Infra.Redis.Addr)
	c.Infra.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Infra.Kafka.Topic)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		c.Infra.Kafka.Brokers = strings.Split(brokers, ",")
	}
	c.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", c.Infra.Nacos.ServerAddrs)
	c.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", c.Infra.Nacos.Namespace)
	c.Infra.Nacos.Group = getEnv("NACOS_GROUP", c.Infra.Nacos.Group)
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)

	c.Orchestrator.OrderQueueURL = getEnv("ORDER_QUEUE_URL", c.Orchestrator.OrderQueueURL)
	c.Orchestrator.StockLedgerURL = getEnv("STOCK_LEDGER_URL", c.Orchestrator.StockLedgerURL)
	c.Orchestrator.ReplenishRule = getEnv("REPLENISH_RULE", c.Orchestrator.ReplenishRule)
	c.Orchestrator.MetricsAddr = getEnv("METRICS_ADDR", c.Orchestrator.MetricsAddr)

	ints := []struct {
		key string
		dst *int
	}{
		{"MYSQL_PORT", &c.Infra.MySQL.Port},
		{"MYSQL_MAX_OPEN_CONNS", &c.Infra.MySQL.MaxOpenConns},
		{"REDIS_DB", &c.Infra.Redis.DB},
		{"ORDER_QUEUE_PORT", &c.OrderQueue.Port},
		{"STOCK_LEDGER_PORT", &c.StockLedger.Port},
		{"STOCK_SEED_QUANTITY", &c.StockLedger.SeedQuantity},
		{"LOW_WATER_MARK", &c.Orchestrator.LowWaterMark},
		{"REPLENISH_AMOUNT", &c.Orchestrator.ReplenishAmount},
	}
	for _, kv := range ints {
		v, err := getEnvInt(kv.key, *kv.dst)
		if err != nil {
			return err
		}
		*kv.dst = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ORCHESTRATOR_INTERVAL", &c.Orchestrator.Interval},
		{"ORCHESTRATOR_CALL_TIMEOUT", &c.Orchestrator.CallTimeout},
	}
	for _, kv := range durations {
		v, err := getEnvDuration(kv.key, *kv.dst)
		if err != nil {
			return err
		}
		*kv.dst = v
	}

	if v, ok := os.LookupEnv("VALIDATE_QUANTITIES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid VALIDATE_QUANTITIES %q: %w", v, err)
		}
		c.Orchestrator.ValidateQuantities = b
	}
	return nil
}

// Validate 拒绝明显错误的配置，避免服务带着零值启动。
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "mysql", "redis", "memory":
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Infra.MySQL.MaxOpenConns <= 0 {
		return fmt.Errorf("mysql.max_open_conns must be positive, got %d", c.Infra.MySQL.MaxOpenConns)
	}
	if c.Orchestrator.Interval <= 0 {
		return fmt.Errorf("orchestrator.interval must be positive, got %s", c.Orchestrator.Interval)
	}
	if c.Orchestrator.CallTimeout < 0 {
		return fmt.Errorf("orchestrator.call_timeout must not be negative")
	}
	if c.Orchestrator.MalformedOneIn < 0 {
		return fmt.Errorf("orchestrator.malformed_one_in must not be negative")
	}
	return nil
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
