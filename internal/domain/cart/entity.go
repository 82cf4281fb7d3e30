package cart

import (
	"time"
)

// ShoppingCart 购物车实体(聚合根)
// 设计说明:
// 1. 一个客户(CustomerEmail)同时最多一个购物车(数据库唯一索引保证)
// 2. 结算成功后购物车被删除,继续购物需要新建购物车
// 3. TotalAmount为冗余字段,随条目变动重算
type ShoppingCart struct {
	ID            uint
	CustomerEmail string
	Items         []CartItem
	TotalAmount   int64 // 金额(分)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CartItem 购物车条目
// UnitPrice是加入购物车时的价格快照:
// 结算时按此价格成交,商家改价不影响已在车中的条目
type CartItem struct {
	ID        uint
	CartID    uint
	BookID    uint
	Quantity  int
	UnitPrice int64 // 加车时单价(分)
	Subtotal  int64 // Quantity * UnitPrice
}

// NewShoppingCart 创建空购物车(工厂方法)
func NewShoppingCart(customerEmail string) *ShoppingCart {
	now := time.Now()
	return &ShoppingCart{
		CustomerEmail: customerEmail,
		Items:         make([]CartItem, 0),
		TotalAmount:   0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsEmpty 购物车是否为空
func (c *ShoppingCart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItem 加入图书(领域行为)
// 同一本书已在车中时合并数量,保留首次加车的价格快照
func (c *ShoppingCart) AddItem(bookID uint, quantity int, unitPrice int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity += quantity
			c.Items[i].Subtotal = int64(c.Items[i].Quantity) * c.Items[i].UnitPrice
			c.recalculate()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		CartID:    c.ID,
		BookID:    bookID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  int64(quantity) * unitPrice,
	})
	c.recalculate()
	return nil
}

// UpdateItemQuantity 修改条目数量(领域行为)
func (c *ShoppingCart) UpdateItemQuantity(itemID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			c.Items[i].Subtotal = int64(quantity) * c.Items[i].UnitPrice
			c.recalculate()
			return nil
		}
	}
	return ErrCartItemNotFound
}

// RemoveItem 移除条目(领域行为)
func (c *ShoppingCart) RemoveItem(itemID uint) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recalculate()
			return nil
		}
	}
	return ErrCartItemNotFound
}

// recalculate 重算购物车总金额
func (c *ShoppingCart) recalculate() {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal
	}
	c.TotalAmount = total
	c.UpdatedAt = time.Now()
}
