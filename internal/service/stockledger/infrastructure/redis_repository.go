package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"warehouse/internal/service/stockledger/domain"
)

const defaultStockKey = "warehouse:stock"

// adjustScript 只对已存在的字段执行 HINCRBY，避免为未知商品凭空建出库存。
var adjustScript = goredis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return false
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[2])
`)

// RedisStockRepository 把所有商品的库存放在一个 hash 里，field 是商品名。
type RedisStockRepository struct {
	client goredis.UniversalClient
	key    string
}

func NewRedisStockRepository(client goredis.UniversalClient) *RedisStockRepository {
	return &RedisStockRepository{client: client, key: defaultStockKey}
}

func (r *RedisStockRepository) Get(ctx context.Context, product string) (*domain.StockEntry, error) {
	v, err := r.client.HGet(ctx, r.key, product).Int()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("hget %s: %w", product, err)
	}
	return &domain.StockEntry{Product: product, Quantity: v}, nil
}

func (r *RedisStockRepository) Adjust(ctx context.Context, product string, delta int) (*domain.StockEntry, error) {
	v, err := adjustScript.Run(ctx, r.client, []string{r.key}, product, delta).Int()
	if err != nil {
		// Lua 的 false 会被转换成 nil 回复
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("adjust stock for %s by %d: %w", product, delta, err)
	}
	return &domain.StockEntry{Product: product, Quantity: v}, nil
}

func (r *RedisStockRepository) Seed(ctx context.Context, products []string, quantity int) error {
	pipe := r.client.Pipeline()
	for _, p := range products {
		pipe.HSetNX(ctx, r.key, p, quantity)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("seed stock: %w", err)
	}
	return nil
}

func (r *RedisStockRepository) List(ctx context.Context) ([]*domain.StockEntry, error) {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", r.key, err)
	}
	entries := make([]*domain.StockEntry, 0, len(all))
	for product, raw := range all {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt stock value for %s: %q", product, raw)
		}
		entries = append(entries, &domain.StockEntry{Product: product, Quantity: q})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Product < entries[j].Product })
	return entries, nil
}
