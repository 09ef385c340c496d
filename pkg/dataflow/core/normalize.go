package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
)

// ═══════════════════════════════════════════════════════════════════════════
// 错误归一化 - 阻塞与流式共用同一条映射
// ═══════════════════════════════════════════════════════════════════════════

// normalizeFailure 将任意被捕获的传输失败映射为统一错误信封
//
// 两条路径用同一条映射，调用方无论哪种模式都只需一次 error 键检查。
// 状态码提取规则：底层失败携带 HTTP 响应时使用其状态，
// 否则字段真缺省（不是 0，也不是 null）。
func normalizeFailure(errType dataflow.ErrorType, err error, statusCode int, body []byte) *dataflow.ErrorEnvelope {
	build := dataflow.NewRequestFailed
	if errType == dataflow.ErrTypeStreamFailed {
		build = dataflow.NewStreamFailed
	}

	if err != nil {
		return build(err.Error())
	}

	msg := fmt.Sprintf("server returned status %d", statusCode)
	if detail := trimBody(body); detail != "" {
		msg += ": " + detail
	}
	return build(msg).WithStatusCode(statusCode)
}

// maxBodyInMessage 错误消息中携带的响应体上限
const maxBodyInMessage = 512

// trimBody 裁剪响应体用于错误消息
func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if !utf8.ValidString(s) {
		return ""
	}
	if len(s) > maxBodyInMessage {
		s = s[:maxBodyInMessage]
	}
	return s
}

// statusError 协作方 GET 接口的非 2xx 失败
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return fmt.Sprintf("server returned status %d: %s", e.code, e.body)
	}
	return fmt.Sprintf("server returned status %d", e.code)
}
