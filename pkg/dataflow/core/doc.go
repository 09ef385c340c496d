// Package core 实现 Data Flow 客户端的传输调度与流式解码
//
// [Dispatcher] 是请求调度的核心：协议适配器把端点与载荷成形后，
// 由 Dispatch 按声明的模式路由到阻塞或流式传输。
//
// [Stream] 是拉取式的 SSE 惰性序列：挂起发生在每次 Next 调用内部，
// 没有后台解码协程，停止拉取并 Close 即释放连接。
//
// 两条路径的失败由同一条归一化映射折叠为 [dataflow.ErrorEnvelope]，
// 传输异常不会越过任何公开操作。
package core
