package dataflow

import (
	"errors"
	"fmt"
)

// ═══════════════════════════════════════════════════════════════════════════
// 错误信封 - 传输失败统一为数据而非异常
// ═══════════════════════════════════════════════════════════════════════════

// ErrorType 信封错误类型
type ErrorType string

const (
	// ErrTypeRequestFailed 阻塞调用失败（网络、超时、非 2xx 状态）
	ErrTypeRequestFailed ErrorType = "request_failed"

	// ErrTypeStreamFailed 流式调用失败（建流失败或中途断流）
	ErrTypeStreamFailed ErrorType = "stream_failed"
)

// ErrorDetail 信封内层错误
//
// StatusCode 仅在底层失败携带 HTTP 状态时存在；
// 未知时字段整体缺省，不写 0 也不写 null。
type ErrorDetail struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode *int      `json:"status_code,omitempty"`
}

// ErrorEnvelope 统一错误信封
//
// 所有预期内的传输/解码失败，无论阻塞还是流式，都折叠为这一个形态。
// 调用方检查返回值中是否存在 error 键即可，没有独立的异常通道。
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// NewRequestFailed 创建阻塞调用失败信封
func NewRequestFailed(message string) *ErrorEnvelope {
	return &ErrorEnvelope{Error: ErrorDetail{
		Type:    ErrTypeRequestFailed,
		Message: message,
	}}
}

// NewStreamFailed 创建流式调用失败信封
func NewStreamFailed(message string) *ErrorEnvelope {
	return &ErrorEnvelope{Error: ErrorDetail{
		Type:    ErrTypeStreamFailed,
		Message: message,
	}}
}

// WithStatusCode 附加 HTTP 状态码
func (e *ErrorEnvelope) WithStatusCode(code int) *ErrorEnvelope {
	e.Error.StatusCode = &code
	return e
}

// AsResult 转换为阻塞结果形态
func (e *ErrorEnvelope) AsResult() Result {
	return Result(e.asMap())
}

// AsEvent 转换为流式事件形态
func (e *ErrorEnvelope) AsEvent() StreamEvent {
	return StreamEvent(e.asMap())
}

// asMap 展开为 map，保持 status_code 的"真缺省"语义
func (e *ErrorEnvelope) asMap() map[string]any {
	inner := map[string]any{
		"type":    string(e.Error.Type),
		"message": e.Error.Message,
	}
	if e.Error.StatusCode != nil {
		inner["status_code"] = *e.Error.StatusCode
	}
	return map[string]any{"error": inner}
}

// envelopeFromMap 从 map 形态还原信封，无 error 键时返回 nil
func envelopeFromMap(m map[string]any) *ErrorEnvelope {
	raw, ok := m["error"]
	if !ok {
		return nil
	}

	env := &ErrorEnvelope{}
	inner, ok := raw.(map[string]any)
	if !ok {
		// 健康检查等协作方形态里 error 是裸字符串
		if s, ok := raw.(string); ok {
			env.Error.Message = s
		}
		return env
	}

	if t, ok := inner["type"].(string); ok {
		env.Error.Type = ErrorType(t)
	}
	if msg, ok := inner["message"].(string); ok {
		env.Error.Message = msg
	}
	switch code := inner["status_code"].(type) {
	case int:
		env.Error.StatusCode = &code
	case float64:
		c := int(code)
		env.Error.StatusCode = &c
	}
	return env
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置错误 - 编程性错误保留为真实 error
// ═══════════════════════════════════════════════════════════════════════════

// ConfigError 配置错误
//
// 与错误信封不同，配置错误属于不可恢复的编程性错误，
// 由构造函数以 Go error 形式返回，不进入 error 键通道。
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config_error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("config_error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError 创建配置错误
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{Message: message, Err: err}
}

// IsConfigError 检查是否为配置错误
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}
