package category

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/category"
)

// CategoryUseCase 分类管理用例
type CategoryUseCase struct {
	categoryRepo category.Repository
	bookRepo     book.Repository
}

// NewCategoryUseCase 创建分类管理用例
func NewCategoryUseCase(categoryRepo category.Repository, bookRepo book.Repository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, bookRepo: bookRepo}
}

// Create 创建分类
func (uc *CategoryUseCase) Create(ctx context.Context, name, description string) (*category.Category, error) {
	if name == "" {
		return nil, category.ErrInvalidName
	}
	c := category.NewCategory(name, description)
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID 查询分类
func (uc *CategoryUseCase) GetByID(ctx context.Context, id uint) (*category.Category, error) {
	return uc.categoryRepo.FindByID(ctx, id)
}

// List 查询全部分类
func (uc *CategoryUseCase) List(ctx context.Context) ([]*category.Category, error) {
	return uc.categoryRepo.List(ctx)
}

// Update 更新分类
func (uc *CategoryUseCase) Update(ctx context.Context, id uint, name, description string) (*category.Category, error) {
	c, err := uc.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.UpdateInfo(name, description)
	if err := uc.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 删除分类
func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.categoryRepo.Delete(ctx, id)
}

// ListBooks 查询分类下的图书(分页)
func (uc *CategoryUseCase) ListBooks(ctx context.Context, categoryID uint, page, pageSize int) ([]*book.Book, int64, error) {
	if _, err := uc.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, 0, err
	}
	return uc.bookRepo.List(ctx, book.ListParams{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: categoryID,
	})
}
