package models

import "testing"

// TestClampAmount 测试金额钳制
func TestClampAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		want   int
	}{
		{"负数取下界", -5, 1},
		{"零取下界", 0, 1},
		{"下界本身", 1, 1},
		{"正常金额", 12, 12},
		{"默认金额", 5, 5},
		{"上界本身", 50, 50},
		{"超过上界", 51, 50},
		{"远超上界", 200, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampAmount(tt.amount); got != tt.want {
				t.Errorf("ClampAmount(%d) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

// TestClassifyPayURL 测试payurl分流
func TestClassifyPayURL(t *testing.T) {
	tests := []struct {
		name   string
		payurl string
		want   PaymentActionKind
	}{
		{"https跳转", "https://pay.example.com/cashier?order=1", ActionRedirect},
		{"http跳转", "http://pay.example.com/cashier", ActionRedirect},
		{"大写scheme也算跳转", "HTTPS://pay.example.com/x", ActionRedirect},
		{"微信深链走扫码", "weixin://wxpay/bizpayurl?pr=abc123", ActionQRPayment},
		{"支付宝深链走扫码", "alipays://platformapi/startapp?appId=1", ActionQRPayment},
		{"未知scheme也走扫码", "example://pay/xyz", ActionQRPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := ClassifyPayURL(tt.payurl)
			if action.Kind != tt.want {
				t.Errorf("ClassifyPayURL(%q).Kind = %v, want %v", tt.payurl, action.Kind, tt.want)
			}
			if action.URL != tt.payurl {
				t.Errorf("ClassifyPayURL(%q).URL = %q, 原始URL不应被改写", tt.payurl, action.URL)
			}
		})
	}
}

// TestPayProviderValid 测试渠道校验
func TestPayProviderValid(t *testing.T) {
	if !ProviderWxPay.Valid() || !ProviderAlipay.Valid() {
		t.Error("已知渠道应通过校验")
	}
	if PayProvider("paypal").Valid() {
		t.Error("未知渠道不应通过校验")
	}
}
