package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"topup-client/conf"
)

var (
	client     *redis.Client
	clientOnce sync.Once
)

// Init 初始化 Redis 连接
func Init() error {
	var err error
	clientOnce.Do(func() {
		cfg := conf.GetConf()

		// 如果 Redis 未配置，跳过初始化
		if cfg.Redis.Address == "" {
			zap.L().Info("Redis not configured, using file cache")
			return
		}

		client = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Address, cfg.Redis.Port),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  time.Duration(cfg.Redis.DialTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.Redis.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Redis.WriteTimeout) * time.Second,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})

		// 测试连接
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err = client.Ping(ctx).Err(); err != nil {
			zap.L().Warn("Failed to connect to Redis, caching disabled", zap.Error(err))
			client = nil
			err = nil
			return
		}

		zap.L().Info("Redis connected successfully",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Redis.Address, cfg.Redis.Port)),
			zap.Int("db", cfg.Redis.DB))
	})
	return err
}

// Close 关闭 Redis 连接
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// IsAvailable 检查 Redis 是否可用
func IsAvailable() bool {
	return client != nil
}

// GetClient 获取 Redis 客户端（用于高级操作）
func GetClient() *redis.Client {
	return client
}

// 缓存键前缀
const keyPrefix = "topup:"

// RedisStore Redis 键值存储实现
// 缓存的API密钥没有过期时间，与文件存储语义保持一致
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(c *redis.Client) *RedisStore {
	return &RedisStore{client: c}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil // 缓存未命中
	}
	if err != nil {
		zap.L().Warn("Failed to get key from Redis", zap.Error(err), zap.String("key", key))
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		zap.L().Warn("Failed to set key in Redis", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}
