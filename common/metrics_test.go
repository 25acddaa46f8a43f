package common

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findCounter 在默认注册表里按名字和标签找计数器的当前值
func findCounter(t *testing.T, name string, labels map[string]string) (float64, bool) {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.Label, labels) {
				return m.GetCounter().GetValue(), true
			}
		}
	}
	return 0, false
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if want[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}

// TestRecordCharge 测试充值指标按渠道和结果计数
func TestRecordCharge(t *testing.T) {
	labels := map[string]string{"provider": "wxpay", "outcome": ChargeOutcomeQR}
	before, _ := findCounter(t, "charge_total", labels)

	RecordCharge("wxpay", ChargeOutcomeQR, 10)

	after, ok := findCounter(t, "charge_total", labels)
	if !ok {
		t.Fatal("charge_total 指标未注册")
	}
	if after != before+1 {
		t.Errorf("charge_total = %v, want %v", after, before+1)
	}
}

// TestRecordChargeRejectedSkipsAmount 测试被拒的提交不记入金额分布
func TestRecordChargeRejectedSkipsAmount(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	countBefore := histogramCount(families, "charge_amount", "alipay")

	// 金额为0的拒绝不应观察金额
	RecordCharge("alipay", ChargeOutcomeRejected, 0)

	families, err = prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if got := histogramCount(families, "charge_amount", "alipay"); got != countBefore {
		t.Errorf("charge_amount 样本数 = %v, want %v", got, countBefore)
	}
}

func histogramCount(families []*dto.MetricFamily, name, provider string) uint64 {
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.Label, map[string]string{"provider": provider}) {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

// TestRecordSettlementReturn 测试缺失的trade_status归入missing
func TestRecordSettlementReturn(t *testing.T) {
	labels := map[string]string{"trade_status": "missing"}
	before, _ := findCounter(t, "settlement_returns_total", labels)

	RecordSettlementReturn("")

	after, ok := findCounter(t, "settlement_returns_total", labels)
	if !ok {
		t.Fatal("settlement_returns_total 指标未注册")
	}
	if after != before+1 {
		t.Errorf("settlement_returns_total{missing} = %v, want %v", after, before+1)
	}
}
