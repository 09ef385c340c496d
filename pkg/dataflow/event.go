package dataflow

// ═══════════════════════════════════════════════════════════════════════════
// 阻塞结果
// ═══════════════════════════════════════════════════════════════════════════

// Result 阻塞调用的结果
//
// 成功时是服务端返回的原始 JSON 对象（不做任何改写）；
// 失败时是统一的错误信封（含 error 键）。
// 调用方只需检查 error 键是否存在即可区分成败。
type Result map[string]any

// IsError 检查结果是否为错误信封
func (r Result) IsError() bool {
	_, ok := r["error"]
	return ok
}

// Err 提取错误信封，非错误时返回 nil
func (r Result) Err() *ErrorEnvelope {
	return envelopeFromMap(r)
}

// ═══════════════════════════════════════════════════════════════════════════
// 流式事件
// ═══════════════════════════════════════════════════════════════════════════

// StreamEvent 流式调用解码出的单个事件
//
// 每个非哨兵 data 帧解码为一个 JSON 对象，按到达顺序产出。
// 形态由协议决定，对解码器不透明。
type StreamEvent map[string]any

// IsError 检查事件是否为错误信封
func (e StreamEvent) IsError() bool {
	_, ok := e["error"]
	return ok
}

// Err 提取错误信封，非错误时返回 nil
func (e StreamEvent) Err() *ErrorEnvelope {
	return envelopeFromMap(e)
}

// Answer 提取 Dify 协议的 answer 增量，不存在时返回空串
func (e StreamEvent) Answer() string {
	s, _ := e["answer"].(string)
	return s
}

// Event 提取 Dify 协议的 event 字段（message / message_end / done 等）
func (e StreamEvent) Event() string {
	s, _ := e["event"].(string)
	return s
}
