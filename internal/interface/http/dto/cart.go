package dto

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// CreateCartRequest 创建购物车请求
type CreateCartRequest struct {
	CustomerEmail string `json:"customer_email" binding:"required,email" example:"reader@example.com"`
}

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1" example:"2"`
}

// UpdateCartItemRequest 修改条目数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1" example:"3"`
}

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required" example:"上海市浦东新区张江高科技园区"`
}

// CartItemResponse 购物车条目响应
type CartItemResponse struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // 加车时单价(分)
	Subtotal  int64  `json:"subtotal"`
	Display   string `json:"subtotal_display"`
}

// CartResponse 购物车响应
type CartResponse struct {
	ID            uint               `json:"id"`
	CustomerEmail string             `json:"customer_email"`
	Items         []CartItemResponse `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	TotalDisplay  string             `json:"total_display"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
}

// FromCart 实体转响应
func FromCart(c *cart.ShoppingCart) *CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			ID:        item.ID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
			Display:   FormatPrice(item.Subtotal),
		})
	}
	return &CartResponse{
		ID:            c.ID,
		CustomerEmail: c.CustomerEmail,
		Items:         items,
		TotalAmount:   c.TotalAmount,
		TotalDisplay:  FormatPrice(c.TotalAmount),
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
}
