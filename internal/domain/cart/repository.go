package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 购物车与条目是聚合关系,读写都以整车为单位
type Repository interface {
	// Create 创建购物车
	// 客户已有购物车时返回ErrCartDuplicate
	Create(ctx context.Context, cart *ShoppingCart) error

	// FindByID 根据ID查找购物车(包含条目)
	FindByID(ctx context.Context, id uint) (*ShoppingCart, error)

	// FindByCustomerEmail 根据客户邮箱查找购物车
	FindByCustomerEmail(ctx context.Context, email string) (*ShoppingCart, error)

	// Update 保存购物车(整车覆盖条目)
	Update(ctx context.Context, cart *ShoppingCart) error

	// Delete 删除购物车及其条目
	// 购物车不存在时返回ErrCartNotFound——结算幂等依赖此语义:
	// 同一购物车第二次结算在加载阶段就会得到ErrCartNotFound
	Delete(ctx context.Context, id uint) error
}
