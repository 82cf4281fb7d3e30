package cart

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrCartNotFound 购物车不存在(已结算删除的购物车同样返回此错误)
	ErrCartNotFound = apperrors.ErrCartNotFound

	// ErrCartItemNotFound 购物车条目不存在
	ErrCartItemNotFound = apperrors.ErrCartItemNotFound

	// ErrCartDuplicate 该客户已有购物车
	ErrCartDuplicate = apperrors.ErrCartDuplicate

	// ErrEmptyCart 购物车为空,不能结算
	ErrEmptyCart = apperrors.ErrEmptyCart

	// ErrInvalidQuantity 数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInvalidEmail 客户邮箱不能为空
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "客户邮箱不能为空")
)
