package common

import (
	"errors"
	"fmt"
)

// 所有后端调用有两条独立的失败轴：
//   - 传输失败：网络错误、超时、非2xx状态码，以 *TransportError 返回；
//   - 业务失败：HTTP 层成功但响应 success=false，以 *APIError 返回，
//     Message 为服务端原文，直接展示给用户。
// 调用方必须分别处理，不能把两者混为一谈。

// APIError 业务失败（success=false）
type APIError struct {
	Path    string `json:"path"`    // 产生错误的接口路径
	Message string `json:"message"` // 服务端返回的错误消息
}

// Error 实现error接口
func (e *APIError) Error() string {
	if e.Message == "" {
		return "服务端返回失败"
	}
	return e.Message
}

// NewAPIError 创建业务错误
func NewAPIError(path, message string) *APIError {
	return &APIError{Path: path, Message: message}
}

// AsAPIError 判断是否为业务错误
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// TransportError 传输层失败（请求未能完成或状态码异常）
type TransportError struct {
	Path       string
	StatusCode int // 0 表示请求未完成
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError 创建传输错误
func NewTransportError(path string, statusCode int, err error) *TransportError {
	return &TransportError{Path: path, StatusCode: statusCode, Err: err}
}

// IsTransportError 判断是否为传输错误
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
