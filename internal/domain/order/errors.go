package order

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.ErrInvalidOrderStatus

	// ErrInvalidOrderItems 订单明细不能为空
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidCustomer 客户邮箱不能为空
	ErrInvalidCustomer = apperrors.New(apperrors.ErrCodeInvalidParams, "客户邮箱不能为空")

	// ErrOrderNoDuplicate 订单号冲突
	// 随机后缀是"概率唯一",仓储层通过唯一索引兜底,
	// 下单用例捕获此错误后换新订单号重试,不向客户端暴露
	ErrOrderNoDuplicate = apperrors.New(apperrors.ErrCodeOrderNoConflict, "订单号冲突")
)
