package order

import (
	"context"
)

// Repository 订单仓储接口
type Repository interface {
	// Create 创建订单(包含订单明细,必须在同一事务中落库)
	// order_no唯一索引冲突时返回ErrOrderNoDuplicate
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// UpdateStatus 更新订单状态
	// 只写status/updated_at两列,明细与金额永不经过此路径
	UpdateStatus(ctx context.Context, order *Order) error

	// ListByCustomerEmail 查询客户的订单列表(分页)
	ListByCustomerEmail(ctx context.Context, email string, page, pageSize int) ([]*Order, int64, error)

	// Delete 删除订单
	Delete(ctx context.Context, id uint) error
}
