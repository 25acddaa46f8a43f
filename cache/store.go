package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"topup-client/conf"
)

// Store 键值存储能力。取代浏览器端的 localStorage：
// 调用方显式注入，不依赖隐藏的全局状态。
type Store interface {
	// Get 返回值和是否命中
	Get(ctx context.Context, key string) (string, bool, error)
	// Set 持久化写入
	Set(ctx context.Context, key, value string) error
}

// FileStore JSON文件存储，跨进程重启保留
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]string
}

// NewFileStore 创建文件存储并加载已有内容
// 文件不存在视为空存储，不是错误
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			// 损坏的缓存文件按空处理，下次写入会覆盖
			zap.L().Warn("Cache file corrupted, starting empty",
				zap.String("path", path), zap.Error(err))
			s.data = make(map[string]string)
		}
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flush()
}

// flush 整体落盘，先写临时文件再改名
// 调用方必须持有写锁
func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".topup_cache-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// OpenStore 按配置选择存储后端
// redis 配置了但不可用时回落到文件存储，客户端不应因此失败
func OpenStore() (Store, error) {
	cfg := conf.GetConf()

	if cfg.Cache.Backend == "redis" {
		if err := Init(); err != nil {
			zap.L().Warn("Failed to initialize Redis cache", zap.Error(err))
		}
		if IsAvailable() {
			return NewRedisStore(GetClient()), nil
		}
		zap.L().Warn("Redis not available, falling back to file store")
	}

	return NewFileStore(cfg.Cache.FilePath)
}
