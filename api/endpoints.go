package api

import (
	"context"
	"net/url"

	"topup-client/biz/models"
)

// TokenListResponse GET /api/token/ 的响应
// 列表包在 data.data 里，取最近创建的在前
type TokenListResponse struct {
	Envelope
	Data struct {
		Data  []models.Token `json:"data"`
		Total int            `json:"total"`
	} `json:"data"`
}

// SelfResponse GET /api/user/self 的响应
type SelfResponse struct {
	Envelope
	Data models.UserSelf `json:"data"`
}

// AffResponse GET /api/user/aff 的响应，data 即推荐码
type AffResponse struct {
	Envelope
	Data string `json:"data"`
}

// ChargeResponse POST /api/user/recharge 的响应
// payurl 在包装的顶层，不在 data 里
type ChargeResponse struct {
	Envelope
	PayURL string `json:"payurl"`
}

// ListTokens 获取用户最近的令牌列表（第1页，10条，按id倒序）
func (c *Client) ListTokens(ctx context.Context) (*TokenListResponse, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("size", "10")
	params.Set("keyword", "")
	params.Set("order", "-id")

	var out TokenListResponse
	if err := c.Get(ctx, "/api/token/", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Self 获取当前用户信息
func (c *Client) Self(ctx context.Context) (*SelfResponse, error) {
	var out SelfResponse
	if err := c.Get(ctx, "/api/user/self", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Aff 获取当前用户的推荐码
func (c *Client) Aff(ctx context.Context) (*AffResponse, error) {
	var out AffResponse
	if err := c.Get(ctx, "/api/user/aff", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recharge 创建充值链接
func (c *Client) Recharge(ctx context.Context, req models.ChargeRequest) (*ChargeResponse, error) {
	var out ChargeResponse
	if err := c.Post(ctx, "/api/user/recharge", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
