package dto

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	CustomerEmail   string             `json:"customer_email" binding:"required,email" example:"reader@example.com"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	Items           []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderLineRequest 下单行
type OrderLineRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1" example:"2"`
}

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Processing"` // Pending/Processing/Shipped/Delivered/Cancelled
}

// OrderItemResponse 订单明细响应
type OrderItemResponse struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // 成交单价(分)
	Subtotal  int64  `json:"subtotal"`
	Display   string `json:"subtotal_display"`
}

// OrderResponse 订单响应
type OrderResponse struct {
	ID              uint                `json:"id"`
	OrderNo         string              `json:"order_no"`
	CustomerEmail   string              `json:"customer_email"`
	ShippingAddress string              `json:"shipping_address"`
	Total           int64               `json:"total"`
	TotalDisplay    string              `json:"total_display"`
	Status          string              `json:"status"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

// FromOrder 实体转响应
func FromOrder(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
			Display:   FormatPrice(item.Subtotal),
		})
	}
	return &OrderResponse{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total,
		TotalDisplay:    FormatPrice(o.Total),
		Status:          o.Status.String(),
		Items:           items,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       o.UpdatedAt.Format(time.RFC3339),
	}
}

// FromOrders 实体列表转响应列表
func FromOrders(orders []*order.Order) []*OrderResponse {
	result := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, FromOrder(o))
	}
	return result
}
