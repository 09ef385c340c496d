// Package dataflow 提供 Data Flow API 的统一类型层
//
// 本包定义与 Data Flow 服务交互所需的核心类型，包括：
//   - [ChatMessage]: OpenAI 风格的对话消息
//   - [OpenAIRequest] / [DifyRequest] / [UniversalRequest]: 三类协议请求
//   - [Result] / [StreamEvent]: 阻塞结果与流式事件
//   - [ErrorEnvelope]: 统一错误信封
//   - [Config]: 客户端配置（文件、环境变量两种加载方式）
//
// # 错误约定
//
// 预期内的传输失败（网络错误、超时、非 2xx 状态、建流失败）一律折叠为
// [ErrorEnvelope]，以数据形式返回或产出，调用方检查 error 键即可：
//
//	result := client.ChatDify(ctx, agentID, req).Result
//	if env := result.Err(); env != nil {
//	    // env.Error.Type 为 request_failed 或 stream_failed
//	}
//
// 编程性错误（缺失 base URL 等无效配置）保留为真实的 Go error，
// 由构造函数返回，见 [ConfigError]。
//
// # 环境变量
//
// [ConfigFromEnv] 支持从环境变量自动探测配置：
//   - DATAFLOW_BASE_URL
//   - DATAFLOW_API_KEY
//   - DATAFLOW_USER_ID
//   - DATAFLOW_TIMEOUT
//
// # 子包组织
//
//   - [pkg/dataflow/core]: 传输调度器与 SSE 流解码器
//   - [pkg/dataflow/protocol/openai]: OpenAI 聊天端点适配器
//   - [pkg/dataflow/protocol/dify]: Dify 聊天与工作流端点适配器
//   - [pkg/dataflow/protocol/universal]: 通用端点适配器
//   - [pkg/dataflow/client]: 面向调用方的客户端门面
package dataflow
