package dto

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/category"
)

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required" example:"计算机"`
	Description string `json:"description" example:"计算机与编程类图书"`
}

// UpdateCategoryRequest 更新分类请求
type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// FromCategory 实体转响应
func FromCategory(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

// FromCategories 实体列表转响应列表
func FromCategories(categories []*category.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, FromCategory(c))
	}
	return result
}
