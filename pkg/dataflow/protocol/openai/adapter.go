package openai

import (
	"net/url"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
)

// ═══════════════════════════════════════════════════════════════════════════
// OpenAI 聊天端点适配器
// ═══════════════════════════════════════════════════════════════════════════

// endpointPath OpenAI 兼容聊天端点
const endpointPath = "/api/v1/openai/chat/completions"

// Endpoint 构建端点，agent_id 经查询参数传递
func Endpoint(agentID string) string {
	return endpointPath + "?agent_id=" + url.QueryEscape(agentID)
}

// Payload 将请求成形为线上载荷
//
// max_tokens 为零时整体缺省；temperature 与 stream 恒定携带。
func Payload(req *dataflow.OpenAIRequest) map[string]any {
	messages := make([]map[string]any, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, map[string]any{
			"role":    string(msg.Role),
			"content": msg.Content,
		})
	}

	payload := map[string]any{
		"messages":    messages,
		"model":       req.Model,
		"temperature": req.Temperature,
		"stream":      req.Stream,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	return payload
}

// WantsStream 判定是否走流式路径
func WantsStream(req *dataflow.OpenAIRequest) bool {
	return req.Stream
}
