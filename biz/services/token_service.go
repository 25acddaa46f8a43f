package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"topup-client/api"
	"topup-client/cache"
	"topup-client/common"
)

// FirstAPIKeyCacheKey 持久化存储里缓存首个API密钥的固定键名
const FirstAPIKeyCacheKey = "first_apikey"

type tokenAPI interface {
	ListTokens(ctx context.Context) (*api.TokenListResponse, error)
}

// TokenService 首个API密钥的取用与缓存
// 缓存命中不发网络请求；写入后本流程永不失效它
type TokenService struct {
	api      tokenAPI
	store    cache.Store
	notifier common.Notifier

	// 串行化未命中时的拉取，保证并发调用也只取一次
	mu sync.Mutex
}

// NewTokenService 创建令牌服务
func NewTokenService(backend tokenAPI, store cache.Store, notifier common.Notifier) *TokenService {
	return &TokenService{api: backend, store: store, notifier: notifier}
}

// FirstAPIKey 返回用户的首个API密钥。
// 先查持久化存储；未命中时拉取最近令牌列表（第1页10条按id倒序），
// 取第一条的key写入存储后返回。
func (s *TokenService) FirstAPIKey(ctx context.Context) (string, error) {
	if key, ok, err := s.store.Get(ctx, FirstAPIKeyCacheKey); err == nil && ok {
		return key, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 拿到锁后再查一次，前一个拉取可能已经写入
	if key, ok, err := s.store.Get(ctx, FirstAPIKeyCacheKey); err == nil && ok {
		return key, nil
	}

	resp, err := s.api.ListTokens(ctx)
	if err != nil {
		zap.L().Warn("Token list fetch failed", zap.Error(err))
		return "", err
	}
	if !resp.Success {
		s.notifier.Error(resp.Message)
		return "", common.NewAPIError("/api/token/", resp.Message)
	}
	if len(resp.Data.Data) == 0 {
		return "", fmt.Errorf("account has no tokens")
	}

	key := resp.Data.Data[0].Key
	if err := s.store.Set(ctx, FirstAPIKeyCacheKey, key); err != nil {
		// 写缓存失败不影响本次返回，下次再拉一遍
		zap.L().Warn("Failed to cache first api key", zap.Error(err))
	}
	return key, nil
}

// ChatLink 组合聊天入口深链，内嵌 sk- 前缀的密钥和服务器地址
// chatURL 为空时没有聊天入口
func (s *TokenService) ChatLink(ctx context.Context, chatURL, siteURL string) (string, error) {
	if chatURL == "" {
		return "", fmt.Errorf("chat url not configured")
	}

	key, err := s.FirstAPIKey(ctx)
	if err != nil {
		return "", err
	}

	host := siteURL
	if parsed, perr := url.Parse(siteURL); perr == nil && parsed.Host != "" {
		host = parsed.Host
	}

	return fmt.Sprintf(`%s/#/?settings={"key":"sk-%s","url":"%s"}`,
		strings.TrimRight(chatURL, "/"), key, host), nil
}
