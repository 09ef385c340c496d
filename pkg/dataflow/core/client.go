package core

import (
	"context"
	"encoding/json"
	"io"

	"github.com/go-resty/resty/v2"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
)

// ═══════════════════════════════════════════════════════════════════════════
// 传输调度器
// ═══════════════════════════════════════════════════════════════════════════

// Dispatcher 传输调度器
//
// 封装 HTTP 通信与阻塞/流式两条传输路径的路由。
// 协议适配器只负责端点与载荷成形，其余全部委托到这里。
//
// 并发约定：构造后不再修改任何字段，跨调用共享的只有底层
// resty 连接池；每次调用的状态相互独立，无需额外加锁。
type Dispatcher struct {
	resty *resty.Client
}

// NewDispatcher 创建传输调度器
//
// 配置验证失败时返回 ConfigError（真实 error，不走信封通道）。
func NewDispatcher(cfg dataflow.Config) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetTimeout(cfg.GetTimeout())
	for k, v := range cfg.BuildHeaders() {
		r.SetHeader(k, v)
	}

	return &Dispatcher{resty: r}, nil
}

// Close 释放空闲连接
func (d *Dispatcher) Close() error {
	d.resty.GetClient().CloseIdleConnections()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 调度
// ═══════════════════════════════════════════════════════════════════════════

// Outcome 一次调度的结果：阻塞结果或流式序列，二者恰有其一
type Outcome struct {
	Result dataflow.Result
	Stream *Stream
}

// Streaming 本次调度是否走了流式路径
func (o *Outcome) Streaming() bool {
	return o.Stream != nil
}

// Dispatch 按声明的模式路由到阻塞或流式传输
//
// 调度层本身无副作用、幂等；远端操作的幂等性由服务端负责。
func (d *Dispatcher) Dispatch(ctx context.Context, endpoint string, payload map[string]any, wantsStream bool) *Outcome {
	if wantsStream {
		return &Outcome{Stream: d.Stream(ctx, endpoint, payload)}
	}
	return &Outcome{Result: d.Do(ctx, endpoint, payload)}
}

// ═══════════════════════════════════════════════════════════════════════════
// 阻塞路径
// ═══════════════════════════════════════════════════════════════════════════

// Do 阻塞请求
//
// 发起一次 POST，等待完整响应体并解析为单个 JSON 对象。
// 成功时返回服务端发送的原始对象，不做任何改写；
// 任何传输异常、超时、DNS 失败、非 2xx 状态或响应体无法解析，
// 都返回（而非抛出）request_failed 信封。
func (d *Dispatcher) Do(ctx context.Context, endpoint string, payload map[string]any) dataflow.Result {
	resp, err := d.resty.R().
		SetContext(ctx).
		SetBody(payload).
		Post(endpoint)
	if err != nil {
		return normalizeFailure(dataflow.ErrTypeRequestFailed, err, 0, nil).AsResult()
	}

	if resp.StatusCode() >= 400 {
		return normalizeFailure(dataflow.ErrTypeRequestFailed, nil, resp.StatusCode(), resp.Body()).AsResult()
	}

	var result dataflow.Result
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return dataflow.NewRequestFailed("parse response: " + err.Error()).AsResult()
	}

	return result
}

// ═══════════════════════════════════════════════════════════════════════════
// 流式路径
// ═══════════════════════════════════════════════════════════════════════════

// Stream 流式请求
//
// 发起一次 POST 请求增量交付，成功时返回由 SSE 解码驱动的惰性序列。
// 建流失败（任何字节到达前的连接错误或非 2xx 状态）时，
// 序列产出恰好一个 stream_failed 信封后终止，绝不向调用方抛出。
func (d *Dispatcher) Stream(ctx context.Context, endpoint string, payload map[string]any) *Stream {
	resp, err := d.resty.R().
		SetContext(ctx).
		SetBody(payload).
		SetDoNotParseResponse(true).
		Post(endpoint)
	if err != nil {
		return newFailedStream(normalizeFailure(dataflow.ErrTypeStreamFailed, err, 0, nil))
	}

	if resp.StatusCode() >= 400 {
		body := readLimited(resp.RawBody())
		_ = resp.RawBody().Close()
		return newFailedStream(normalizeFailure(dataflow.ErrTypeStreamFailed, nil, resp.StatusCode(), body))
	}

	return newStream(resp.RawBody())
}

// ═══════════════════════════════════════════════════════════════════════════
// 裸 GET - 健康检查等协作方接口
// ═══════════════════════════════════════════════════════════════════════════

// Get 发起一次 GET 并解析 JSON 响应
//
// 健康检查与服务信息的失败形态与错误信封不同，由各自的
// 协作方包装器定义，因此这里以真实 error 返回失败。
func (d *Dispatcher) Get(ctx context.Context, endpoint string) (dataflow.Result, error) {
	resp, err := d.resty.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 400 {
		return nil, &statusError{code: resp.StatusCode(), body: trimBody(resp.Body())}
	}

	var result dataflow.Result
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}

	return result, nil
}

// drainLimit 读取错误响应体的上限
const drainLimit = 4 * 1024

// readLimited 读取至多 drainLimit 字节
func readLimited(r io.Reader) []byte {
	data, _ := io.ReadAll(io.LimitReader(r, drainLimit))
	return data
}
