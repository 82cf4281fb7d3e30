package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// CartUseCase 购物车管理用例(创建、查询、条目增删改)
type CartUseCase struct {
	cartRepo cart.Repository
	bookRepo book.Repository
}

// NewCartUseCase 创建购物车管理用例
func NewCartUseCase(cartRepo cart.Repository, bookRepo book.Repository) *CartUseCase {
	return &CartUseCase{cartRepo: cartRepo, bookRepo: bookRepo}
}

// Create 为客户创建购物车
func (uc *CartUseCase) Create(ctx context.Context, customerEmail string) (*cart.ShoppingCart, error) {
	if customerEmail == "" {
		return nil, cart.ErrInvalidEmail
	}

	c := cart.NewShoppingCart(customerEmail)
	if err := uc.cartRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID 根据ID查询购物车
func (uc *CartUseCase) GetByID(ctx context.Context, id uint) (*cart.ShoppingCart, error) {
	return uc.cartRepo.FindByID(ctx, id)
}

// GetByCustomerEmail 根据客户邮箱查询购物车
func (uc *CartUseCase) GetByCustomerEmail(ctx context.Context, email string) (*cart.ShoppingCart, error) {
	return uc.cartRepo.FindByCustomerEmail(ctx, email)
}

// AddItem 向购物车加入图书
// 价格快照取加车时刻的图书价格;
// 库存检查只作提示,真正的扣减与校验发生在结算事务内
func (uc *CartUseCase) AddItem(ctx context.Context, cartID, bookID uint, quantity int) (*cart.ShoppingCart, error) {
	c, err := uc.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !b.CanFulfill(quantity) {
		logger.L.Info("加车时库存已不足",
			zap.Uint("book_id", bookID),
			zap.Int("stock", b.Stock),
			zap.Int("requested", quantity))
		return nil, apperrors.Wrapf(book.ErrInsufficientStock, apperrors.ErrCodeInsufficientStock,
			"图书[%d]库存不足: 剩余%d", bookID, b.Stock)
	}

	if err := c.AddItem(bookID, quantity, b.Price); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return uc.cartRepo.FindByID(ctx, cartID)
}

// UpdateItemQuantity 修改条目数量
func (uc *CartUseCase) UpdateItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) (*cart.ShoppingCart, error) {
	c, err := uc.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return uc.cartRepo.FindByID(ctx, cartID)
}

// RemoveItem 移除条目
func (uc *CartUseCase) RemoveItem(ctx context.Context, cartID, itemID uint) (*cart.ShoppingCart, error) {
	c, err := uc.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return uc.cartRepo.FindByID(ctx, cartID)
}

// Delete 删除购物车
func (uc *CartUseCase) Delete(ctx context.Context, id uint) error {
	return uc.cartRepo.Delete(ctx, id)
}
