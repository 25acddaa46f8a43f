package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"

	"topup-client/common"
	"topup-client/conf"
)

// Envelope 后端统一响应包装 {success, message, ...}
// success=false 是业务失败，与传输失败是两条独立的轴
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK 业务层是否成功
func (e *Envelope) OK() bool {
	return e.Success
}

// Client 后端API客户端
type Client struct {
	baseURL string
	token   string
	hc      *client.Client
	log     *zap.Logger
}

// New 创建API客户端
func New(cfg *conf.Config) (*Client, error) {
	dialTimeout := time.Duration(cfg.Backend.DialTimeout) * time.Second
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	requestTimeout := time.Duration(cfg.Backend.RequestTimeout) * time.Second
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	hc, err := client.NewClient(
		client.WithDialTimeout(dialTimeout),
		client.WithClientReadTimeout(requestTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		token:   cfg.Backend.AccessToken,
		hc:      hc,
		log:     zap.L(),
	}, nil
}

// Get 发起GET请求并把响应解码到 out
// 返回值仅表示传输层结果；业务失败由调用方检查 out 的 success 字段
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	full := c.baseURL + path
	if len(params) > 0 {
		full += "?" + params.Encode()
	}
	return c.do(ctx, consts.MethodGet, path, full, nil, out)
}

// Post 发起JSON POST请求并把响应解码到 out
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, consts.MethodPost, path, c.baseURL+path, body, out)
}

func (c *Client) do(ctx context.Context, method, path, fullURL string, body, out interface{}) error {
	req := protocol.AcquireRequest()
	defer protocol.ReleaseRequest(req)
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseResponse(resp)

	req.SetMethod(method)
	req.SetRequestURI(fullURL)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	requestID := common.NewRequestID()
	req.Header.Set("X-Request-ID", requestID)

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBodyRaw(data)
	}

	start := time.Now()
	err := c.hc.Do(ctx, req, resp)
	duration := time.Since(start)

	if err != nil {
		common.RecordAPIRequest(method, path, common.OutcomeTransportError, duration)
		c.log.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return common.NewTransportError(path, 0, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		common.RecordAPIRequest(method, path, common.OutcomeTransportError, duration)
		c.log.Warn("Backend returned non-2xx status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", status),
			zap.String("request_id", requestID))
		return common.NewTransportError(path, status, nil)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			common.RecordAPIRequest(method, path, common.OutcomeTransportError, duration)
			return common.NewTransportError(path, status, fmt.Errorf("failed to decode response: %w", err))
		}
	}

	outcome := common.OutcomeOK
	if ev, ok := out.(interface{ OK() bool }); ok && !ev.OK() {
		outcome = common.OutcomeBusinessError
	}
	common.RecordAPIRequest(method, path, outcome, duration)

	c.log.Debug("Backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", status),
		zap.Duration("latency", duration),
		zap.String("outcome", outcome))
	return nil
}
