package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 API 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		TurnDuration, TurnTotal,
		ToolCallTotal, UnknownToolTotal, ToolDuration,
		LLMCallTotal, RateLimitWaitSeconds,
	)
}

// TurnDuration 单轮对话处理耗时（秒，含全部模型与工具往返）
var TurnDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "assistant_turn_duration_seconds",
		Help:    "单轮对话处理耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider"},
)

// TurnTotal 对话轮总数（按结果）
var TurnTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_turn_total",
		Help: "对话轮总数（按结果）",
	},
	[]string{"status"}, // completed | backend_error | round_capped
)

// ToolCallTotal 工具调用总数（按工具与结果）
var ToolCallTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_tool_call_total",
		Help: "工具调用总数（按工具与结果）",
	},
	[]string{"tool", "status"}, // ok | error
)

// UnknownToolTotal 模型请求了未注册工具名的次数（静默丢弃策略的可观测信号）
var UnknownToolTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_unknown_tool_total",
		Help: "模型请求未注册工具名的次数",
	},
	[]string{"tool"},
)

// ToolDuration 工具调用耗时（秒）
var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "assistant_tool_duration_seconds",
		Help:    "工具调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool"},
)

// LLMCallTotal 模型后端调用总数（按提供商与结果）
var LLMCallTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_llm_call_total",
		Help: "模型后端调用总数（按提供商与结果）",
	},
	[]string{"provider", "status"}, // ok | error
)

// RateLimitWaitSeconds 限流等待耗时（秒）
var RateLimitWaitSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "assistant_rate_limit_wait_seconds",
		Help:    "限流等待耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"kind", "name"}, // kind: llm
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 等复用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
