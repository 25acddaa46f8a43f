package services

import (
	"context"
	"sync"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"topup-client/api"
	"topup-client/common"
)

type affAPI interface {
	Aff(ctx context.Context) (*api.AffResponse, error)
}

// InviteService 邀请链接生成
// 推荐码每个会话只拉取一次；链接只存内存，进程退出即失
type InviteService struct {
	api      affAPI
	notifier common.Notifier
	siteURL  string
	copyFn   func(text string) error

	mu   sync.Mutex
	link string
}

// NewInviteService 创建邀请链接服务
// copyFn 为 nil 时使用系统剪贴板
func NewInviteService(backend affAPI, notifier common.Notifier, siteURL string, copyFn func(string) error) *InviteService {
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	return &InviteService{
		api:      backend,
		notifier: notifier,
		siteURL:  siteURL,
		copyFn:   copyFn,
	}
}

// InviteLink 返回邀请链接并复制到剪贴板。
// 首次调用拉取推荐码并组合 站点origin + /register?aff= + 推荐码；
// 之后直接复制已算好的链接，不再请求。
func (s *InviteService) InviteLink(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.link != "" {
		s.copy(s.link)
		return s.link, nil
	}

	resp, err := s.api.Aff(ctx)
	if err != nil {
		// 传输失败静默返回，与额度拉取同样的软失败
		zap.L().Debug("Affiliate code fetch failed", zap.Error(err))
		return "", err
	}
	if !resp.Success {
		s.notifier.Error(resp.Message)
		return "", common.NewAPIError("/api/user/aff", resp.Message)
	}

	s.link = s.siteURL + "/register?aff=" + resp.Data
	s.copy(s.link)
	return s.link, nil
}

func (s *InviteService) copy(link string) {
	if err := s.copyFn(link); err != nil {
		// 无剪贴板的环境（ssh等）直接把链接展示出来
		zap.L().Debug("Clipboard write failed", zap.Error(err))
		s.notifier.Info("邀请链接: " + link)
		return
	}
	s.notifier.Success("邀请链接已复制到剪贴板")
}
