package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/category"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CategoryRepository 分类仓储MySQL实现
type CategoryRepository struct {
	db *gorm.DB
}

var _ category.Repository = (*CategoryRepository)(nil)

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := toCategoryModel(c)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "创建分类失败")
	}
	c.ID = model.ID
	return nil
}

// FindByID 根据ID查找分类
func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

// FindByName 根据名称查找分类
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*category.Category, error) {
	var model CategoryModel
	if err := getDB(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

// Update 更新分类
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	result := getDB(ctx, r.db).Model(&CategoryModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":        c.Name,
			"description": c.Description,
			"updated_at":  c.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "更新分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// Delete 删除分类
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&CategoryModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// List 查询全部分类
func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询分类列表失败")
	}

	categories := make([]*category.Category, 0, len(models))
	for i := range models {
		categories = append(categories, toCategoryEntity(&models[i]))
	}
	return categories, nil
}

func toCategoryModel(c *category.Category) *CategoryModel {
	return &CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryEntity(m *CategoryModel) *category.Category {
	return &category.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
