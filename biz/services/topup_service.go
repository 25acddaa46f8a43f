package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"topup-client/api"
	"topup-client/biz/models"
	"topup-client/common"
)

// TradeStatusSuccess 支付渠道回跳时声明成功的 trade_status 值
const TradeStatusSuccess = "TRADE_SUCCESS"

// rechargeAPI TopUpService 依赖的后端能力
type rechargeAPI interface {
	Recharge(ctx context.Context, req models.ChargeRequest) (*api.ChargeResponse, error)
	Self(ctx context.Context) (*api.SelfResponse, error)
}

// Navigator 把URL交给外部程序打开（浏览器或钱包）
type Navigator func(url string) error

// FlowState 充值流程状态机：
// Idle -> Submitting -> {QRPending | Redirecting | Idle}
// QRPending 在用户取消或声明已支付后回到 Idle，没有服务端驱动的迁移
type FlowState int

const (
	StateIdle FlowState = iota
	StateSubmitting
	StateQRPending
	StateRedirecting
)

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateQRPending:
		return "qr_pending"
	case StateRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// TopUpService 充值流程控制器
// 独占持有金额、渠道和进行中的充值状态；二维码对话框只借用负载展示
type TopUpService struct {
	api      rechargeAPI
	notifier common.Notifier
	navigate Navigator
	reload   func()

	mu         sync.Mutex
	state      FlowState
	amount     int
	provider   models.PayProvider
	submitting bool
	quota      int
	qrPayload  string
	qrAmount   int
}

// TopUpOption 构造选项
type TopUpOption func(*TopUpService)

// WithNavigator 注入URL打开方式
func WithNavigator(nav Navigator) TopUpOption {
	return func(s *TopUpService) { s.navigate = nav }
}

// WithReloader 注入整页重载回调（确认支付后刷新额度展示）
func WithReloader(reload func()) TopUpOption {
	return func(s *TopUpService) { s.reload = reload }
}

// NewTopUpService 创建充值流程控制器，金额默认5，渠道默认微信
func NewTopUpService(backend rechargeAPI, notifier common.Notifier, opts ...TopUpOption) *TopUpService {
	s := &TopUpService{
		api:      backend,
		notifier: notifier,
		state:    StateIdle,
		amount:   models.DefaultTopUpAmount,
		provider: models.ProviderWxPay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAmount 设置充值金额，输入先过钳制
func (s *TopUpService) SetAmount(raw int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amount = models.ClampAmount(raw)
}

// ClearAmount 清空金额输入（对应输入框被清空），Submit 会拒绝空金额
func (s *TopUpService) ClearAmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amount = 0
}

// SetProvider 设置支付渠道
func (s *TopUpService) SetProvider(p models.PayProvider) bool {
	if !p.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	return true
}

func (s *TopUpService) Amount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amount
}

func (s *TopUpService) Provider() models.PayProvider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

func (s *TopUpService) Quota() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quota
}

func (s *TopUpService) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *TopUpService) State() FlowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit 提交一次充值。
// 前置条件：金额不为0（0只提示不发请求）。请求期间 submitting 置位，
// 响应处理完（提示已展示、分支已走完）才复位，以此串行化重复提交。
func (s *TopUpService) Submit(ctx context.Context) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return
	}
	amount := s.amount
	provider := s.provider
	if amount == 0 {
		s.mu.Unlock()
		common.RecordCharge(string(provider), common.ChargeOutcomeRejected, 0)
		s.notifier.Info("请输入充值金额！")
		return
	}
	s.submitting = true
	s.state = StateSubmitting
	s.mu.Unlock()

	// 所有出口都要复位提交位，包括提示或跳转中途panic的情况
	defer func() {
		s.mu.Lock()
		s.submitting = false
		if s.state == StateSubmitting {
			s.state = StateIdle
		}
		s.mu.Unlock()
	}()

	resp, err := s.api.Recharge(ctx, models.ChargeRequest{Amount: amount, Type: provider})
	if err != nil {
		common.RecordCharge(string(provider), common.ChargeOutcomeFailed, amount)
		zap.L().Warn("Charge request failed",
			zap.Int("amount", amount),
			zap.String("provider", string(provider)),
			zap.Error(err))
		s.notifier.Error("请求失败")
		return
	}

	if !resp.Success {
		// 业务失败：展示服务端原文，金额和渠道保持不变
		common.RecordCharge(string(provider), common.ChargeOutcomeFailed, amount)
		s.notifier.Error(resp.Message)
		return
	}

	s.notifier.Success("创建充值链接成功！")

	action := models.ClassifyPayURL(resp.PayURL)
	s.mu.Lock()
	s.amount = models.DefaultTopUpAmount
	switch action.Kind {
	case models.ActionQRPayment:
		s.state = StateQRPending
		s.qrPayload = action.URL
		s.qrAmount = amount
	case models.ActionRedirect:
		s.state = StateRedirecting
	}
	s.mu.Unlock()

	switch action.Kind {
	case models.ActionQRPayment:
		common.RecordCharge(string(provider), common.ChargeOutcomeQR, amount)
		// 钱包深链尽力直接唤起；失败不算错误，二维码是兜底
		if s.navigate != nil {
			if err := s.navigate(action.URL); err != nil {
				zap.L().Debug("Wallet deep link navigation failed", zap.Error(err))
			}
		}
	case models.ActionRedirect:
		common.RecordCharge(string(provider), common.ChargeOutcomeRedirect, amount)
		if s.navigate != nil {
			if err := s.navigate(action.URL); err != nil {
				zap.L().Warn("Failed to open pay url", zap.Error(err))
				s.notifier.Info("请手动打开支付链接: " + action.URL)
			}
		}
	}
}

// QRPending 返回待确认的二维码负载和对应金额
func (s *TopUpService) QRPending() (payload string, amount int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQRPending {
		return "", 0, false
	}
	return s.qrPayload, s.qrAmount, true
}

// CancelQR 用户取消扫码确认：关闭对话框回到空闲，不发任何请求
func (s *TopUpService) CancelQR() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQRPending {
		return
	}
	s.state = StateIdle
	s.qrPayload = ""
	s.qrAmount = 0
}

// ConfirmPaid 用户声明已完成支付：关闭对话框并触发整页重载。
// 不向后端做任何结算校验，新余额靠重载后的额度拉取体现。
func (s *TopUpService) ConfirmPaid() {
	s.mu.Lock()
	if s.state != StateQRPending {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.qrPayload = ""
	s.qrAmount = 0
	s.mu.Unlock()

	if s.reload != nil {
		s.reload()
	}
}

// Resume 支付页已交给浏览器后回到空闲，等待用户下一步操作
func (s *TopUpService) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRedirecting {
		s.state = StateIdle
	}
}

// LoadQuota 拉取当前额度。
// 传输失败静默保持旧值（额度展示不关键）；业务失败展示服务端消息。
func (s *TopUpService) LoadQuota(ctx context.Context) {
	resp, err := s.api.Self(ctx)
	if err != nil {
		zap.L().Debug("Quota fetch failed", zap.Error(err))
		return
	}
	if !resp.Success {
		s.notifier.Error(resp.Message)
		return
	}
	s.mu.Lock()
	s.quota = resp.Data.Quota
	s.mu.Unlock()
}

// HandleSettlement 处理支付渠道的回跳信号
// 只有 TRADE_SUCCESS 触发成功提示和重载，其余状态仅记录
func (s *TopUpService) HandleSettlement(tradeStatus string) {
	if tradeStatus != TradeStatusSuccess {
		zap.L().Info("Ignoring non-success trade status", zap.String("trade_status", tradeStatus))
		return
	}

	s.notifier.Success("充值成功！")

	s.mu.Lock()
	if s.state == StateRedirecting || s.state == StateQRPending {
		s.state = StateIdle
		s.qrPayload = ""
		s.qrAmount = 0
	}
	s.mu.Unlock()

	if s.reload != nil {
		s.reload()
	}
}
