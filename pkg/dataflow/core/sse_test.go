package core

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
)

// ═══════════════════════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════════════════════

// trackingBody 记录 Close 调用的响应体
type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

// errBody 读到固定内容后返回传输错误
type errBody struct {
	reader io.Reader
	err    error
}

func (b *errBody) Read(p []byte) (int, error) {
	n, err := b.reader.Read(p)
	if err == io.EOF {
		return n, b.err
	}
	return n, err
}

func (b *errBody) Close() error { return nil }

func streamOf(lines ...string) *Stream {
	return newStream(io.NopCloser(strings.NewReader(strings.Join(lines, "\n") + "\n")))
}

// ═══════════════════════════════════════════════════════════════════════════
// 解码状态机测试
// ═══════════════════════════════════════════════════════════════════════════

func TestStream_Next_DecodeRobustness(t *testing.T) {
	// 空行与畸形帧跳过不终止，[DONE] 之后不再产出
	stream := streamOf(
		`data: {"a":1}`,
		``,
		`data: not-json`,
		`data: {"b":2}`,
		`data: [DONE]`,
		`data: {"c":3}`,
	)

	events := stream.Collect()

	require.Len(t, events, 2)
	assert.Equal(t, float64(1), events[0]["a"])
	assert.Equal(t, float64(2), events[1]["b"])
}

func TestStream_Next_ArrivalOrder(t *testing.T) {
	stream := streamOf(
		`data: {"seq":1}`,
		`data: {"seq":2}`,
		`data: {"seq":3}`,
	)

	events := stream.Collect()

	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, float64(i+1), e["seq"], "事件须按到达顺序产出")
	}
}

func TestStream_Next_IgnoreNonDataLines(t *testing.T) {
	// 注释、心跳、event: 行、其他前缀一律忽略
	stream := streamOf(
		`: heartbeat`,
		`event: message`,
		`id: 42`,
		`retry: 3000`,
		`data: {"valid":true}`,
	)

	events := stream.Collect()

	require.Len(t, events, 1)
	assert.Equal(t, true, events[0]["valid"])
}

func TestStream_Next_DoneSentinelTerminates(t *testing.T) {
	stream := streamOf(`data: [DONE]`, `data: {"after":true}`)

	event, ok := stream.Next()

	assert.Nil(t, event)
	assert.False(t, ok)

	// 终止后重复拉取保持耗尽状态
	_, ok = stream.Next()
	assert.False(t, ok)
}

func TestStream_Next_EmptyStream(t *testing.T) {
	stream := newStream(io.NopCloser(strings.NewReader("")))

	events := stream.Collect()

	assert.Empty(t, events)
}

func TestStream_Next_MalformedFrameCap(t *testing.T) {
	// 连续畸形帧有界：超限以 stream_failed 终止
	lines := make([]string, 0, maxMalformedFrames+1)
	for i := 0; i < maxMalformedFrames; i++ {
		lines = append(lines, `data: not-json`)
	}
	lines = append(lines, `data: {"never":"reached"}`)
	stream := streamOf(lines...)

	events := stream.Collect()

	require.Len(t, events, 1)
	env := events[0].Err()
	require.NotNil(t, env)
	assert.Equal(t, dataflow.ErrTypeStreamFailed, env.Error.Type)
}

func TestStream_Next_MalformedCapResetsOnValidFrame(t *testing.T) {
	// 畸形帧被有效帧隔断时不累计
	var lines []string
	for i := 0; i < 3; i++ {
		for j := 0; j < maxMalformedFrames-1; j++ {
			lines = append(lines, `data: not-json`)
		}
		lines = append(lines, `data: {"ok":true}`)
	}
	stream := streamOf(lines...)

	events := stream.Collect()

	require.Len(t, events, 3)
	for _, e := range events {
		assert.False(t, e.IsError())
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 失败与资源释放
// ═══════════════════════════════════════════════════════════════════════════

func TestStream_MidStreamReadError(t *testing.T) {
	body := &errBody{
		reader: strings.NewReader("data: {\"a\":1}\n"),
		err:    errors.New("connection reset by peer"),
	}
	stream := newStream(body)

	first, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, float64(1), first["a"])

	// 读错误折叠为恰好一个 stream_failed 事件
	second, ok := stream.Next()
	require.True(t, ok)
	env := second.Err()
	require.NotNil(t, env)
	assert.Equal(t, dataflow.ErrTypeStreamFailed, env.Error.Type)
	assert.Contains(t, env.Error.Message, "connection reset")
	assert.Nil(t, env.Error.StatusCode)

	// 错误事件之后序列立即结束
	_, ok = stream.Next()
	assert.False(t, ok)
}

func TestStream_FailedStream(t *testing.T) {
	stream := newFailedStream(dataflow.NewStreamFailed("dial tcp: refused"))

	event, ok := stream.Next()
	require.True(t, ok)
	require.True(t, event.IsError())
	assert.Equal(t, dataflow.ErrTypeStreamFailed, event.Err().Error.Type)

	_, ok = stream.Next()
	assert.False(t, ok, "单个错误事件后终止")
}

func TestStream_CloseReleasesBody(t *testing.T) {
	t.Run("显式 Close", func(t *testing.T) {
		body := &trackingBody{Reader: strings.NewReader("data: {\"a\":1}\n")}
		stream := newStream(body)

		require.NoError(t, stream.Close())
		assert.True(t, body.closed)

		_, ok := stream.Next()
		assert.False(t, ok, "Close 之后不再产出")
	})

	t.Run("哨兵终止时自动释放", func(t *testing.T) {
		body := &trackingBody{Reader: strings.NewReader("data: [DONE]\n")}
		stream := newStream(body)

		stream.Collect()

		assert.True(t, body.closed)
	})

	t.Run("重复 Close 幂等", func(t *testing.T) {
		body := &trackingBody{Reader: strings.NewReader("")}
		stream := newStream(body)

		require.NoError(t, stream.Close())
		require.NoError(t, stream.Close())
	})
}
