package common

import (
	"fmt"
	"strconv"
)

// DefaultQuotaPerUnit 平台默认换算比例：500000 额度 = $1
const DefaultQuotaPerUnit = 500000

// RenderQuota 将整数额度渲染为货币字符串，如 2500000 -> "$5.00"。
// perUnit <= 0 时使用平台默认比例。
func RenderQuota(quota int, perUnit float64) string {
	if perUnit <= 0 {
		perUnit = DefaultQuotaPerUnit
	}
	return fmt.Sprintf("$%.2f", float64(quota)/perUnit)
}

// RenderNumber 非货币展示时的分组渲染：1234567 -> "1.2M"
func RenderNumber(num int) string {
	switch {
	case num >= 1000000000:
		return fmt.Sprintf("%.1fB", float64(num)/1000000000)
	case num >= 1000000:
		return fmt.Sprintf("%.1fM", float64(num)/1000000)
	case num >= 10000:
		return fmt.Sprintf("%.1fk", float64(num)/1000)
	default:
		return strconv.Itoa(num)
	}
}

// FormatQuota 按展示开关选择货币或分组数字
func FormatQuota(quota int, perUnit float64, inCurrency bool) string {
	if inCurrency {
		return RenderQuota(quota, perUnit)
	}
	return RenderNumber(quota)
}
