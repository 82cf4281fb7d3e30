package category

import (
	"time"
)

// Category 图书分类实体
// Name全局唯一(数据库唯一索引保证)
type Category struct {
	ID          uint
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory 创建分类(工厂方法)
func NewCategory(name, description string) *Category {
	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateInfo 更新分类信息(空字段不覆盖)
func (c *Category) UpdateInfo(name, description string) {
	if name != "" {
		c.Name = name
	}
	if description != "" {
		c.Description = description
	}
	c.UpdatedAt = time.Now()
}
