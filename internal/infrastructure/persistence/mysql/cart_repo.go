package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CartRepository 购物车仓储MySQL实现
type CartRepository struct {
	db *gorm.DB
}

var _ cart.Repository = (*CartRepository)(nil)

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Create 创建购物车
// customer_email唯一索引保证每个客户至多一个购物车
func (r *CartRepository) Create(ctx context.Context, c *cart.ShoppingCart) error {
	model := toCartModel(c)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return cart.ErrCartDuplicate
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "创建购物车失败")
	}
	c.ID = model.ID
	return nil
}

// FindByID 根据ID查找购物车(包含明细)
func (r *CartRepository) FindByID(ctx context.Context, id uint) (*cart.ShoppingCart, error) {
	var model CartModel
	err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询购物车失败")
	}
	return toCartEntity(&model), nil
}

// FindByCustomerEmail 根据客户邮箱查找购物车
func (r *CartRepository) FindByCustomerEmail(ctx context.Context, email string) (*cart.ShoppingCart, error) {
	var model CartModel
	err := getDB(ctx, r.db).Preload("Items").Where("customer_email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询购物车失败")
	}
	return toCartEntity(&model), nil
}

// Update 整体更新购物车聚合
// 明细采用先删后插的全量替换,与总金额更新在同一事务中完成
func (r *CartRepository) Update(ctx context.Context, c *cart.ShoppingCart) error {
	db := getDB(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&CartModel{}).
			Where("id = ?", c.ID).
			Updates(map[string]interface{}{
				"total_amount": c.TotalAmount,
				"updated_at":   c.UpdatedAt,
			})
		if result.Error != nil {
			return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "更新购物车失败")
		}
		if result.RowsAffected == 0 {
			return cart.ErrCartNotFound
		}

		if err := tx.Where("cart_id = ?", c.ID).Delete(&CartItemModel{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "更新购物车明细失败")
		}

		if len(c.Items) > 0 {
			items := make([]CartItemModel, 0, len(c.Items))
			for _, item := range c.Items {
				items = append(items, CartItemModel{
					CartID:    c.ID,
					BookID:    item.BookID,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
					Subtotal:  item.Subtotal,
				})
			}
			if err := tx.Create(&items).Error; err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "更新购物车明细失败")
			}
		}
		return nil
	})
}

// Delete 删除购物车(级联删除明细)
// 购物车不存在时返回ErrCartNotFound,
// 结算用例依赖这一语义实现至多一次提交
func (r *CartRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&CartModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "删除购物车失败")
		}
		if result.RowsAffected == 0 {
			return cart.ErrCartNotFound
		}
		if err := tx.Where("cart_id = ?", id).Delete(&CartItemModel{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "删除购物车明细失败")
		}
		return nil
	})
}

func toCartModel(c *cart.ShoppingCart) *CartModel {
	items := make([]CartItemModel, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemModel{
			ID:        item.ID,
			CartID:    item.CartID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &CartModel{
		ID:            c.ID,
		CustomerEmail: c.CustomerEmail,
		TotalAmount:   c.TotalAmount,
		Items:         items,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toCartEntity(m *CartModel) *cart.ShoppingCart {
	items := make([]cart.CartItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, cart.CartItem{
			ID:        item.ID,
			CartID:    item.CartID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &cart.ShoppingCart{
		ID:            m.ID,
		CustomerEmail: m.CustomerEmail,
		Items:         items,
		TotalAmount:   m.TotalAmount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
