// Package metrics 提供基于Prometheus的业务指标收集
//
// 指标设计：
//   - Counter: 订单创建总数、拒绝总数（按原因分类）、结算总数（按结果分类）
//   - Histogram: 下单耗时分布（自动计算P50/P90/P99）
//   - Gauge: 无（当前没有需要瞬时值的指标）
//
// 指标通过 /metrics 端点暴露，由Prometheus定期抓取。
package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersCreatedTotal 成功创建的订单总数
	OrdersCreatedTotal prometheus.Counter

	// OrderRejectionsTotal 被拒绝的下单请求总数
	// label reason: not_found | validation | insufficient_stock | storage
	OrderRejectionsTotal *prometheus.CounterVec

	// CheckoutsTotal 购物车结算总数
	// label result: success | rejected | compensated
	CheckoutsTotal *prometheus.CounterVec

	// StockAdjustmentsTotal 库存调整总数
	// label direction: increase | decrease
	StockAdjustmentsTotal *prometheus.CounterVec

	// OrderCommitDuration 下单事务耗时(秒)
	OrderCommitDuration prometheus.Histogram

	initOnce sync.Once
)

// Init 注册所有指标
// 重复调用安全（sync.Once），便于测试与main共用
func Init() {
	initOnce.Do(func() {
		OrdersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookshop",
			Name:      "orders_created_total",
			Help:      "成功创建的订单总数",
		})

		OrderRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookshop",
			Name:      "order_rejections_total",
			Help:      "被拒绝的下单请求总数",
		}, []string{"reason"})

		CheckoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookshop",
			Name:      "checkouts_total",
			Help:      "购物车结算总数",
		}, []string{"result"})

		StockAdjustmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookshop",
			Name:      "stock_adjustments_total",
			Help:      "库存调整总数",
		}, []string{"direction"})

		OrderCommitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookshop",
			Name:      "order_commit_duration_seconds",
			Help:      "下单事务耗时(秒)",
			Buckets:   prometheus.DefBuckets,
		})

		prometheus.MustRegister(
			OrdersCreatedTotal,
			OrderRejectionsTotal,
			CheckoutsTotal,
			StockAdjustmentsTotal,
			OrderCommitDuration,
		)
	})
}

// Handler 返回/metrics端点的gin处理函数
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// IncRejection 记录一次下单拒绝
// 指标未初始化时静默跳过（单元测试中无需Init）
func IncRejection(reason string) {
	if OrderRejectionsTotal != nil {
		OrderRejectionsTotal.WithLabelValues(reason).Inc()
	}
}

// IncOrderCreated 记录一次下单成功
func IncOrderCreated() {
	if OrdersCreatedTotal != nil {
		OrdersCreatedTotal.Inc()
	}
}

// IncCheckout 记录一次结算结果
func IncCheckout(result string) {
	if CheckoutsTotal != nil {
		CheckoutsTotal.WithLabelValues(result).Inc()
	}
}

// IncStockAdjustment 记录一次库存调整
func IncStockAdjustment(delta int) {
	if StockAdjustmentsTotal == nil {
		return
	}
	if delta >= 0 {
		StockAdjustmentsTotal.WithLabelValues("increase").Inc()
	} else {
		StockAdjustmentsTotal.WithLabelValues("decrease").Inc()
	}
}

// ObserveCommitDuration 记录下单事务耗时
func ObserveCommitDuration(seconds float64) {
	if OrderCommitDuration != nil {
		OrderCommitDuration.Observe(seconds)
	}
}
