package core

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
)

// ═══════════════════════════════════════════════════════════════════════════
// SSE 流解码器 - 拉取式惰性序列
// ═══════════════════════════════════════════════════════════════════════════

const (
	// dataPrefix SSE 数据行前缀（字面量，含尾随空格）
	dataPrefix = "data: "

	// doneSentinel 流完成哨兵
	doneSentinel = "[DONE]"

	// maxMalformedFrames 连续无法解析的帧上限
	//
	// 单个畸形帧静默丢弃，不中断健康的流；但连续丢弃有界，
	// 超限后以 stream_failed 终止，避免无限容忍。
	maxMalformedFrames = 100
)

// Stream SSE 事件的惰性序列
//
// 单遍、只进、不可重启：重新消费必须重新发起 HTTP 请求。
// 挂起发生在每次 Next 调用内部，没有后台解码协程；
// 停止拉取并调用 Close 即释放底层连接。
//
// 使用示例：
//
//	stream := dispatcher.Stream(ctx, endpoint, payload)
//	defer stream.Close()
//
//	for {
//	    event, ok := stream.Next()
//	    if !ok {
//	        break
//	    }
//	    if env := event.Err(); env != nil {
//	        // stream_failed，序列随即终止
//	        break
//	    }
//	    fmt.Print(event.Answer())
//	}
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	// pending 建流失败时预置的单个错误事件
	pending dataflow.StreamEvent

	done   bool
	closed bool
}

// newStream 包装一个已建立的响应体
func newStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	// SSE 单帧可能远超 bufio 默认的 64KB 行上限
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Stream{body: body, scanner: scanner}
}

// newFailedStream 建流失败：产出恰好一个错误事件后终止
func newFailedStream(env *dataflow.ErrorEnvelope) *Stream {
	return &Stream{pending: env.AsEvent()}
}

// Next 拉取下一个事件
//
// 状态机（每个打开的流）：
//  1. 非 "data: " 前缀行（空行、注释、event: 行）：忽略
//  2. 数据等于 [DONE] 哨兵：终止
//  3. JSON 解析成功：产出事件
//  4. JSON 解析失败：静默丢弃，继续下一行（连续丢弃有界）
//
// 事件按到达顺序产出。错误事件或哨兵之后序列立即结束，
// 不会再混入后续事件。返回 false 表示序列已耗尽。
func (s *Stream) Next() (dataflow.StreamEvent, bool) {
	if s.pending != nil {
		event := s.pending
		s.pending = nil
		s.terminate()
		return event, true
	}

	if s.done || s.scanner == nil {
		return nil, false
	}

	malformed := 0
	for s.scanner.Scan() {
		line := s.scanner.Text()

		data, ok := strings.CutPrefix(line, dataPrefix)
		if !ok {
			continue
		}

		if strings.TrimSpace(data) == doneSentinel {
			s.terminate()
			return nil, false
		}

		var event dataflow.StreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			malformed++
			if malformed >= maxMalformedFrames {
				s.terminate()
				return dataflow.NewStreamFailed("too many consecutive malformed frames").AsEvent(), true
			}
			continue
		}

		return event, true
	}

	// 扫描中断：读错误折叠为 stream_failed，连接正常关闭则静默结束
	if err := s.scanner.Err(); err != nil {
		s.terminate()
		return dataflow.NewStreamFailed(err.Error()).AsEvent(), true
	}

	s.terminate()
	return nil, false
}

// Collect 拉取剩余全部事件
//
// 消费整个序列直到终止，适合阻塞式消费一个小流。
func (s *Stream) Collect() []dataflow.StreamEvent {
	var events []dataflow.StreamEvent
	for {
		event, ok := s.Next()
		if !ok {
			return events
		}
		events = append(events, event)
	}
}

// Close 关闭流并释放底层连接
//
// 可在任意时刻调用；之后的 Next 返回 false。
func (s *Stream) Close() error {
	s.done = true
	s.pending = nil
	if s.body == nil || s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// terminate 标记序列结束并释放连接
func (s *Stream) terminate() {
	s.done = true
	if s.body != nil && !s.closed {
		s.closed = true
		_ = s.body.Close()
	}
}
