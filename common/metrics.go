package common

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

var (
	// 出站API请求指标
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of outbound backend API requests",
		},
		[]string{"method", "path", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Outbound backend API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// 充值相关指标
	chargeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charge_total",
			Help: "Total number of charge attempts",
		},
		[]string{"provider", "outcome"},
	)

	chargeAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "charge_amount",
			Help:    "Requested charge amount in dollars",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 50},
		},
		[]string{"provider"},
	)

	// 回跳指标
	settlementReturnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_returns_total",
			Help: "Total number of payment provider return hits",
		},
		[]string{"trade_status"},
	)

	// 回跳服务入站请求指标
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Inbound HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status_code"},
	)
)

// API请求结果标签
const (
	OutcomeOK             = "ok"
	OutcomeBusinessError  = "business_error"
	OutcomeTransportError = "transport_error"
)

// 充值结果标签
const (
	ChargeOutcomeQR       = "qr"
	ChargeOutcomeRedirect = "redirect"
	ChargeOutcomeFailed   = "failed"
	ChargeOutcomeRejected = "rejected"
)

// RecordAPIRequest 记录一次出站API调用
func RecordAPIRequest(method, path, outcome string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, path, outcome).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCharge 记录一次充值尝试
func RecordCharge(provider, outcome string, amount int) {
	chargeTotal.WithLabelValues(provider, outcome).Inc()
	if amount > 0 {
		chargeAmount.WithLabelValues(provider).Observe(float64(amount))
	}
}

// RecordSettlementReturn 记录一次支付渠道回跳
func RecordSettlementReturn(tradeStatus string) {
	if tradeStatus == "" {
		tradeStatus = "missing"
	}
	settlementReturnsTotal.WithLabelValues(tradeStatus).Inc()
}

// MetricsMiddleware 回跳服务的入站请求指标中间件
func MetricsMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		method := string(c.Method())
		path := string(c.Path())

		c.Next(ctx)

		duration := time.Since(start).Seconds()
		statusCode := fmt.Sprintf("%d", c.Response.StatusCode())

		httpRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
	}
}

// MetricsHandler Prometheus 指标处理器
func MetricsHandler(ctx context.Context, c *app.RequestContext) {
	gatherer := prometheus.DefaultGatherer
	metricFamilies, err := gatherer.Gather()
	if err != nil {
		c.SetStatusCode(500)
		c.JSON(500, utils.H{"error": "Failed to gather metrics", "details": err.Error()})
		zap.L().Error("Failed to gather metrics", zap.Error(err))
		return
	}

	// 格式化为 Prometheus 文本格式
	var output strings.Builder
	for _, mf := range metricFamilies {
		if mf.Help != nil {
			output.WriteString(fmt.Sprintf("# HELP %s %s\n", *mf.Name, *mf.Help))
		}
		output.WriteString(fmt.Sprintf("# TYPE %s %s\n", *mf.Name, mf.Type.String()))

		for _, metric := range mf.Metric {
			labels := buildLabels(metric.Label)

			var metricType dto.MetricType
			if mf.Type != nil {
				metricType = *mf.Type
			}
			value := getMetricValue(metricType, metric)
			output.WriteString(fmt.Sprintf("%s%s %v\n", *mf.Name, labels, value))
		}
		output.WriteString("\n")
	}

	c.SetStatusCode(200)
	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.Write([]byte(output.String()))
}

// buildLabels 构建标签字符串
func buildLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", *label.Name, *label.Value))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// getMetricValue 获取指标值
func getMetricValue(metricType dto.MetricType, metric *dto.Metric) interface{} {
	switch metricType {
	case dto.MetricType_COUNTER:
		if metric.Counter != nil {
			return *metric.Counter.Value
		}
	case dto.MetricType_GAUGE:
		if metric.Gauge != nil {
			return *metric.Gauge.Value
		}
	case dto.MetricType_HISTOGRAM:
		if metric.Histogram != nil {
			return float64(*metric.Histogram.SampleCount)
		}
	case dto.MetricType_SUMMARY:
		if metric.Summary != nil {
			return float64(*metric.Summary.SampleCount)
		}
	}
	return 0
}
