package common

import "testing"

// TestRenderQuota 测试额度货币渲染
func TestRenderQuota(t *testing.T) {
	tests := []struct {
		name    string
		quota   int
		perUnit float64
		want    string
	}{
		{"零额度", 0, 500000, "$0.00"},
		{"整数美元", 2500000, 500000, "$5.00"},
		{"带小数", 1250000, 500000, "$2.50"},
		{"一单位", 500000, 500000, "$1.00"},
		{"perUnit为零用默认值", 500000, 0, "$1.00"},
		{"自定义比例", 100, 100, "$1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderQuota(tt.quota, tt.perUnit); got != tt.want {
				t.Errorf("RenderQuota(%d, %v) = %q, want %q", tt.quota, tt.perUnit, got, tt.want)
			}
		})
	}
}

// TestRenderNumber 测试分组数字渲染
func TestRenderNumber(t *testing.T) {
	tests := []struct {
		name string
		num  int
		want string
	}{
		{"小数字原样", 9999, "9999"},
		{"万级", 12000, "12.0k"},
		{"百万级", 1230000, "1.2M"},
		{"十亿级", 2500000000, "2.5B"},
		{"零", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderNumber(tt.num); got != tt.want {
				t.Errorf("RenderNumber(%d) = %q, want %q", tt.num, got, tt.want)
			}
		})
	}
}

// TestFormatQuota 测试展示开关
func TestFormatQuota(t *testing.T) {
	if got := FormatQuota(2500000, 500000, true); got != "$5.00" {
		t.Errorf("货币展示 = %q, want $5.00", got)
	}
	if got := FormatQuota(2500000, 500000, false); got != "2.5M" {
		t.Errorf("数字展示 = %q, want 2.5M", got)
	}
}
