package universal

import (
	"github.com/agent-connector/dataflow-go/pkg/dataflow"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/protocol/dify"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/protocol/openai"
)

// ═══════════════════════════════════════════════════════════════════════════
// 通用端点适配器 - 服务端自动识别格式
// ═══════════════════════════════════════════════════════════════════════════

// endpointPath 通用聊天端点
const endpointPath = "/api/v1/chat"

// Endpoint 构建端点，agent_id 走请求体
func Endpoint() string {
	return endpointPath
}

// Payload 解析标签变体并注入 agent_id
//
// 按 OpenAI → DifyChat → DifyWorkflow → Raw 取第一个非空变体；
// 已知协议复用各自适配器的载荷成形，Raw 原样透传（浅拷贝后注入）。
func Payload(agentID string, req *dataflow.UniversalRequest) map[string]any {
	var payload map[string]any

	switch {
	case req.OpenAI != nil:
		payload = openai.Payload(req.OpenAI)
	case req.DifyChat != nil:
		payload = dify.ChatPayload(req.DifyChat)
	case req.DifyWorkflow != nil:
		payload = dify.ChatPayload(req.DifyWorkflow)
	default:
		payload = make(map[string]any, len(req.Raw)+1)
		for k, v := range req.Raw {
			payload[k] = v
		}
	}

	payload["agent_id"] = agentID
	return payload
}

// WantsStream 从载荷推断是否走流式路径
//
// 两个触发条件独立检查，任一满足即流式：
//   - stream == true
//   - response_mode == "streaming"
func WantsStream(payload map[string]any) bool {
	if stream, ok := payload["stream"].(bool); ok && stream {
		return true
	}
	if mode, ok := payload["response_mode"].(string); ok && mode == string(dataflow.ResponseModeStreaming) {
		return true
	}
	return false
}
