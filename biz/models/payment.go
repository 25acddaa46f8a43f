package models

import "strings"

// 充值金额限制（美元），与后端输入控件的约束一致
const (
	MinTopUpAmount     = 1
	MaxTopUpAmount     = 50
	DefaultTopUpAmount = 5
)

// PayProvider 支付渠道
type PayProvider string

const (
	ProviderWxPay  PayProvider = "wxpay"
	ProviderAlipay PayProvider = "alipay"
)

// Valid 判断是否为已知渠道
func (p PayProvider) Valid() bool {
	return p == ProviderWxPay || p == ProviderAlipay
}

// Label 渠道的展示名
func (p PayProvider) Label() string {
	switch p {
	case ProviderWxPay:
		return "微信"
	case ProviderAlipay:
		return "支付宝"
	default:
		return string(p)
	}
}

// ChargeRequest 充值请求体，POST /api/user/recharge
type ChargeRequest struct {
	Amount int         `json:"amount"`
	Type   PayProvider `json:"type"`
}

// ClampAmount 金额钳制：小于1取1，大于50取50，其余原样
func ClampAmount(amount int) int {
	if amount < MinTopUpAmount {
		return MinTopUpAmount
	}
	if amount > MaxTopUpAmount {
		return MaxTopUpAmount
	}
	return amount
}

// PaymentActionKind 充值链接的处理方式
type PaymentActionKind int

const (
	// ActionRedirect http(s) 链接，直接跳转到收银台
	ActionRedirect PaymentActionKind = iota
	// ActionQRPayment 钱包深链（非HTTP自定义scheme），展示二维码扫码支付
	ActionQRPayment
)

// PaymentAction payurl 解析后的显式分支结果
// 调用方拿到它之后不需要再碰URL字符串
type PaymentAction struct {
	Kind PaymentActionKind
	URL  string
}

// ClassifyPayURL 按 scheme 前缀对 payurl 分流。
// 后端与客户端之间的隐式协议：http/https 走跳转，其余（weixin:// 等
// 钱包深链）走扫码。为保持兼容只做前缀匹配。
func ClassifyPayURL(payurl string) PaymentAction {
	lower := strings.ToLower(payurl)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return PaymentAction{Kind: ActionRedirect, URL: payurl}
	}
	return PaymentAction{Kind: ActionQRPayment, URL: payurl}
}
