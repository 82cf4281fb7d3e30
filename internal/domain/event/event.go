// Package event 定义领域事件发布端口
// 由infrastructure层(messaging.Publisher)实现,
// 事件投递是尽力而为:发布失败只记日志,不影响主业务事务。
package event

import (
	"context"
	"time"
)

// 路由键常量(RabbitMQ topic exchange)
const (
	RoutingKeyOrderCreated       = "order.created"
	RoutingKeyOrderStatusChanged = "order.status_changed"
	RoutingKeyStockAdjusted      = "stock.adjusted"
	RoutingKeyCartCheckedOut     = "cart.checked_out"
)

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderID       uint      `json:"order_id"`
	OrderNo       string    `json:"order_no"`
	CustomerEmail string    `json:"customer_email"`
	Total         int64     `json:"total"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID   uint      `json:"order_id"`
	OrderNo   string    `json:"order_no"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

// StockAdjustedEvent 库存调整事件
type StockAdjustedEvent struct {
	BookID     uint      `json:"book_id"`
	Delta      int       `json:"delta"`
	NewStock   int       `json:"new_stock"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

// CartCheckedOutEvent 购物车结算事件
type CartCheckedOutEvent struct {
	CartID        uint      `json:"cart_id"`
	CustomerEmail string    `json:"customer_email"`
	OrderNo       string    `json:"order_no"`
	Total         int64     `json:"total"`
	CheckedOutAt  time.Time `json:"checked_out_at"`
}
