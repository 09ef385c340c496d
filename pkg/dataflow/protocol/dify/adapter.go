package dify

import (
	"net/url"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
)

// ═══════════════════════════════════════════════════════════════════════════
// Dify 聊天与工作流端点适配器
// ═══════════════════════════════════════════════════════════════════════════

const (
	// chatPath Dify 聊天端点
	chatPath = "/api/v1/dify/chat-messages"

	// workflowPath Dify 工作流端点（agent_id 走请求体，不走查询串）
	workflowPath = "/api/v1/dify/workflows/run"
)

// ChatEndpoint 构建聊天端点，agent_id 经查询参数传递
func ChatEndpoint(agentID string) string {
	return chatPath + "?agent_id=" + url.QueryEscape(agentID)
}

// WorkflowEndpoint 构建工作流端点，不携带查询参数
func WorkflowEndpoint() string {
	return workflowPath
}

// ChatPayload 将请求成形为线上载荷
//
// 线上不变量：
//   - conversation_id 恒为字符串，空串表示新会话，绝不缺省
//   - inputs 恒非 null，未设置时为 {}
func ChatPayload(req *dataflow.DifyRequest) map[string]any {
	inputs := req.Inputs
	if inputs == nil {
		inputs = map[string]any{}
	}

	mode := req.ResponseMode
	if mode == "" {
		mode = dataflow.ResponseModeBlocking
	}

	return map[string]any{
		"query":           req.Query,
		"user":            req.User,
		"conversation_id": req.ConversationID,
		"inputs":          inputs,
		"response_mode":   string(mode),
	}
}

// WorkflowPayload 工作流载荷：聊天载荷之上注入 agent_id
func WorkflowPayload(agentID string, req *dataflow.DifyRequest) map[string]any {
	payload := ChatPayload(req)
	payload["agent_id"] = agentID
	return payload
}

// WantsStream 判定是否走流式路径
func WantsStream(req *dataflow.DifyRequest) bool {
	return req.ResponseMode == dataflow.ResponseModeStreaming
}
