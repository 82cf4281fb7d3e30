package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// OrderRepository 订单仓储MySQL实现
type OrderRepository struct {
	db *gorm.DB
}

var _ order.Repository = (*OrderRepository)(nil)

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create 创建订单(明细随聚合一起插入)
// order_no唯一索引冲突时返回ErrOrderNoDuplicate,由上层换号重试
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return order.ErrOrderNoDuplicate
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "创建订单失败")
	}
	o.ID = model.ID
	for i := range model.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单(包含明细)
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// FindByOrderNo 根据订单号查找订单
func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// UpdateStatus 更新订单状态
// 只写status/updated_at,订单明细与金额在创建后不可变
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":     int(o.Status),
			"updated_at": o.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// ListByCustomerEmail 分页查询客户订单(按创建时间倒序)
func (r *OrderRepository) ListByCustomerEmail(ctx context.Context, email string, page, pageSize int) ([]*order.Order, int64, error) {
	db := getDB(ctx, r.db).Model(&OrderModel{}).Where("customer_email = ?", email)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计订单数量失败")
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	err := db.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询订单列表失败")
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}
	return orders, total, nil
}

// Delete 删除订单(级联删除明细)
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&OrderModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "删除订单失败")
		}
		if result.RowsAffected == 0 {
			return order.ErrOrderNotFound
		}
		if err := tx.Where("order_id = ?", id).Delete(&OrderItemModel{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "删除订单明细失败")
		}
		return nil
	})
}

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &OrderModel{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total,
		Status:          int(o.Status),
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, order.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &order.Order{
		ID:              m.ID,
		OrderNo:         m.OrderNo,
		CustomerEmail:   m.CustomerEmail,
		ShippingAddress: m.ShippingAddress,
		Total:           m.Total,
		Status:          order.OrderStatus(m.Status),
		Items:           items,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
