package common

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"
)

// ShutdownManager 优雅关闭管理器
// server 可以为 nil（未启用本地回跳服务时）
type ShutdownManager struct {
	server        *server.Hertz
	shutdownFuncs []func(context.Context) error
	mu            sync.Mutex
	done          bool
}

// NewShutdownManager 创建关闭管理器
func NewShutdownManager(s *server.Hertz) *ShutdownManager {
	return &ShutdownManager{
		server:        s,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}
}

// RegisterShutdownFunc 注册关闭函数
func (sm *ShutdownManager) RegisterShutdownFunc(fn func(context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.shutdownFuncs = append(sm.shutdownFuncs, fn)
}

// WatchSignals 在后台监听 SIGINT/SIGTERM，收到后执行清理并退出进程
func (sm *ShutdownManager) WatchSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		zap.L().Info("Received shutdown signal", zap.String("signal", sig.String()))
		sm.Shutdown()
		os.Exit(0)
	}()
}

// Shutdown 执行一次优雅关闭：停掉回跳服务，再依次跑注册的清理函数
// 可以安全地重复调用
func (sm *ShutdownManager) Shutdown() {
	sm.mu.Lock()
	if sm.done {
		sm.mu.Unlock()
		return
	}
	sm.done = true
	funcs := sm.shutdownFuncs
	sm.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sm.server != nil {
		if err := sm.server.Shutdown(ctx); err != nil {
			zap.L().Warn("Return server shutdown failed", zap.Error(err))
		}
	}

	for _, fn := range funcs {
		if err := fn(ctx); err != nil {
			zap.L().Warn("Shutdown function failed", zap.Error(err))
		}
	}

	zap.L().Info("Cleanup completed")
	_ = zap.L().Sync()
}

// CreateShutdownFunc 包一层名字和耗时日志
func CreateShutdownFunc(name string, fn func() error) func(context.Context) error {
	return func(ctx context.Context) error {
		start := time.Now()
		err := fn()
		zap.L().Info("Shutdown step finished",
			zap.String("name", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return err
	}
}
