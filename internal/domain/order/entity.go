package order

import (
	"time"
)

// OrderStatus 订单状态
// 使用int类型存储(节省空间,便于索引),1-5递增表示流转方向
type OrderStatus int

const (
	OrderStatusPending    OrderStatus = 1 // 待处理
	OrderStatusProcessing OrderStatus = 2 // 处理中
	OrderStatusShipped    OrderStatus = 3 // 已发货
	OrderStatusDelivered  OrderStatus = 4 // 已送达
	OrderStatusCancelled  OrderStatus = 5 // 已取消
)

// String 实现Stringer接口(日志与接口输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusProcessing:
		return "Processing"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ParseStatus 解析状态名(接口层传入字符串)
func ParseStatus(s string) (OrderStatus, bool) {
	switch s {
	case "Pending":
		return OrderStatusPending, true
	case "Processing":
		return OrderStatusProcessing, true
	case "Shipped":
		return OrderStatusShipped, true
	case "Delivered":
		return OrderStatusDelivered, true
	case "Cancelled":
		return OrderStatusCancelled, true
	default:
		return 0, false
	}
}

// Order 订单实体(聚合根)
// 设计说明:
// 1. 由下单事务一次性创建,创建后只有Status/UpdatedAt可变
// 2. OrderNo是业务主键,全局唯一
// 3. Total冗余存储,恒等于明细Subtotal之和
type Order struct {
	ID              uint
	OrderNo         string
	CustomerEmail   string
	ShippingAddress string
	Total           int64 // 订单总金额(分)
	Status          OrderStatus
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem 订单明细(下单时刻的快照)
// UnitPrice/Subtotal在下单时固化,此后商家改价不影响历史订单
type OrderItem struct {
	ID        uint
	OrderID   uint
	BookID    uint
	Quantity  int
	UnitPrice int64 // 成交单价(分)
	Subtotal  int64 // Quantity * UnitPrice
}

// NewOrder 创建新订单(工厂方法)
// 自动计算每条明细的Subtotal与订单Total,初始状态Pending
func NewOrder(orderNo, customerEmail, shippingAddress string, items []OrderItem) *Order {
	var total int64
	for i := range items {
		items[i].Subtotal = int64(items[i].Quantity) * items[i].UnitPrice
		total += items[i].Subtotal
	}

	now := time.Now()
	return &Order{
		OrderNo:         orderNo,
		CustomerEmail:   customerEmail,
		ShippingAddress: shippingAddress,
		Total:           total,
		Status:          OrderStatusPending,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 状态机策略(显式约定):只允许前向流转,终态不可再变
//
//	Pending    → Processing | Cancelled
//	Processing → Shipped | Cancelled
//	Shipped    → Delivered
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}

	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 只改Status/UpdatedAt,明细与金额不受状态流转影响
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel 取消订单(领域行为)
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// CalculateTotal 根据明细实时计算总金额
// 用于校验Total冗余字段的一致性
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定客户
func (o *Order) IsOwnedBy(customerEmail string) bool {
	return o.CustomerEmail == customerEmail
}
