package client

import (
	"context"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/core"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/protocol/dify"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/protocol/openai"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/protocol/universal"
)

// ═══════════════════════════════════════════════════════════════════════════
// Data Flow API 客户端
// ═══════════════════════════════════════════════════════════════════════════

// Client Data Flow API 客户端
//
// 把四个协议适配器与传输调度器装配到一起。每个 Chat 方法只做
// 载荷成形与流式判定，其余全部委托给 core.Dispatcher。
//
// 使用示例：
//
//	cfg := dataflow.DefaultConfig()
//	cfg.APIKey = "sk-xxx"
//	c, err := client.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	req := dataflow.NewDifyRequest("你好", "user-1").
//	    WithResponseMode(dataflow.ResponseModeStreaming)
//	outcome := c.ChatDify(ctx, "agent-1", req)
//	defer outcome.Stream.Close()
type Client struct {
	dispatcher *core.Dispatcher
}

// New 创建客户端
//
// 配置无效时返回 ConfigError；预期内的传输失败不走这个通道。
func New(cfg dataflow.Config) (*Client, error) {
	dispatcher, err := core.NewDispatcher(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{dispatcher: dispatcher}, nil
}

// Close 释放底层连接
func (c *Client) Close() error {
	return c.dispatcher.Close()
}

// ═══════════════════════════════════════════════════════════════════════════
// 聊天接口 - 每协议一个薄方法
// ═══════════════════════════════════════════════════════════════════════════

// ChatOpenAI 发送 OpenAI 兼容聊天请求
//
// req.Stream 为 true 时走流式路径。
func (c *Client) ChatOpenAI(ctx context.Context, agentID string, req *dataflow.OpenAIRequest) *core.Outcome {
	return c.dispatcher.Dispatch(ctx, openai.Endpoint(agentID), openai.Payload(req), openai.WantsStream(req))
}

// ChatDify 发送 Dify 兼容聊天请求
//
// response_mode 为 streaming 时走流式路径。
func (c *Client) ChatDify(ctx context.Context, agentID string, req *dataflow.DifyRequest) *core.Outcome {
	return c.dispatcher.Dispatch(ctx, dify.ChatEndpoint(agentID), dify.ChatPayload(req), dify.WantsStream(req))
}

// ChatDifyWorkflow 发送 Dify 工作流请求
//
// agent_id 注入请求体而非查询串。
func (c *Client) ChatDifyWorkflow(ctx context.Context, agentID string, req *dataflow.DifyRequest) *core.Outcome {
	return c.dispatcher.Dispatch(ctx, dify.WorkflowEndpoint(), dify.WorkflowPayload(agentID, req), dify.WantsStream(req))
}

// ChatUniversal 发送通用聊天请求（服务端自动识别格式）
//
// 流式由载荷推断：stream == true 或 response_mode == "streaming"。
func (c *Client) ChatUniversal(ctx context.Context, agentID string, req *dataflow.UniversalRequest) *core.Outcome {
	payload := universal.Payload(agentID, req)
	return c.dispatcher.Dispatch(ctx, universal.Endpoint(), payload, universal.WantsStream(payload))
}

// ═══════════════════════════════════════════════════════════════════════════
// 协作方接口 - 健康检查与服务信息
// ═══════════════════════════════════════════════════════════════════════════

// HealthCheck 检查 API 健康状态
//
// 失败形态与错误信封不同：{"error": 原因, "status": "unhealthy"}。
func (c *Client) HealthCheck(ctx context.Context) dataflow.Result {
	result, err := c.dispatcher.Get(ctx, "/api/v1/health")
	if err != nil {
		return dataflow.Result{"error": err.Error(), "status": "unhealthy"}
	}
	return result
}

// ServiceInfo 获取服务信息
func (c *Client) ServiceInfo(ctx context.Context) dataflow.Result {
	result, err := c.dispatcher.Get(ctx, "/")
	if err != nil {
		return dataflow.Result{"error": err.Error()}
	}
	return result
}
