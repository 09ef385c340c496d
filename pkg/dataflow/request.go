package dataflow

// ═══════════════════════════════════════════════════════════════════════════
// 响应模式
// ═══════════════════════════════════════════════════════════════════════════

// ResponseMode Dify 协议的响应模式
type ResponseMode string

const (
	// ResponseModeBlocking 阻塞模式：等待完整响应
	ResponseModeBlocking ResponseMode = "blocking"

	// ResponseModeStreaming 流式模式：SSE 增量响应
	ResponseModeStreaming ResponseMode = "streaming"
)

// ═══════════════════════════════════════════════════════════════════════════
// OpenAI 兼容请求
// ═══════════════════════════════════════════════════════════════════════════

// OpenAIRequest OpenAI 兼容请求结构
//
// Stream 字段选择阻塞或流式传输。
type OpenAIRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// NewOpenAIRequest 创建 OpenAI 请求
//
// 默认值：model = gpt-3.5-turbo，temperature = 0.7，阻塞模式。
func NewOpenAIRequest(messages ...ChatMessage) *OpenAIRequest {
	return &OpenAIRequest{
		Messages:    messages,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Dify 兼容请求
// ═══════════════════════════════════════════════════════════════════════════

// DifyRequest Dify 兼容请求结构
//
// 字段约定：
//   - User 必填，用于限流与会话绑定
//   - ConversationID 空字符串表示新会话（序列化时恒为空串，不缺省）
//   - Inputs 恒非 nil，序列化为 {} 而非 null
type DifyRequest struct {
	Query          string         `json:"query"`
	User           string         `json:"user"`
	ConversationID string         `json:"conversation_id"`
	Inputs         map[string]any `json:"inputs"`
	ResponseMode   ResponseMode   `json:"response_mode"`
}

// NewDifyRequest 创建 Dify 请求
//
// Inputs 默认填充为空映射，ResponseMode 默认阻塞。
func NewDifyRequest(query, user string) *DifyRequest {
	return &DifyRequest{
		Query:        query,
		User:         user,
		Inputs:       map[string]any{},
		ResponseMode: ResponseModeBlocking,
	}
}

// WithConversation 继续已有会话
func (r *DifyRequest) WithConversation(conversationID string) *DifyRequest {
	r.ConversationID = conversationID
	return r
}

// WithInput 追加一个上下文输入
func (r *DifyRequest) WithInput(key string, value any) *DifyRequest {
	if r.Inputs == nil {
		r.Inputs = map[string]any{}
	}
	r.Inputs[key] = value
	return r
}

// WithResponseMode 设置响应模式
func (r *DifyRequest) WithResponseMode(mode ResponseMode) *DifyRequest {
	r.ResponseMode = mode
	return r
}

// ═══════════════════════════════════════════════════════════════════════════
// 通用请求（标签变体）
// ═══════════════════════════════════════════════════════════════════════════

// UniversalRequest 通用端点请求
//
// 当调用方不确定目标 Agent 实现哪种具体协议时使用。
// 采用标签变体：三种已知协议形态之一，或任意键值映射的原样透传。
// 同一时刻只有一个变体生效，按 OpenAI → DifyChat → DifyWorkflow → Raw
// 的顺序取第一个非空变体。
type UniversalRequest struct {
	OpenAI       *OpenAIRequest
	DifyChat     *DifyRequest
	DifyWorkflow *DifyRequest
	Raw          map[string]any
}

// UniversalFromOpenAI 用 OpenAI 请求构造通用请求
func UniversalFromOpenAI(req *OpenAIRequest) *UniversalRequest {
	return &UniversalRequest{OpenAI: req}
}

// UniversalFromDifyChat 用 Dify 聊天请求构造通用请求
func UniversalFromDifyChat(req *DifyRequest) *UniversalRequest {
	return &UniversalRequest{DifyChat: req}
}

// UniversalFromDifyWorkflow 用 Dify 工作流请求构造通用请求
func UniversalFromDifyWorkflow(req *DifyRequest) *UniversalRequest {
	return &UniversalRequest{DifyWorkflow: req}
}

// UniversalRaw 用任意键值映射构造通用请求（逃生舱）
func UniversalRaw(data map[string]any) *UniversalRequest {
	return &UniversalRequest{Raw: data}
}
