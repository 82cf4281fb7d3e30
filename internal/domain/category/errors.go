package category

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.ErrCategoryNotFound

	// ErrNameDuplicate 分类名称已存在
	ErrNameDuplicate = apperrors.ErrCategoryDuplicate

	// ErrInvalidName 分类名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不能为空")
)
