package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// BookRepository 图书仓储MySQL实现
type BookRepository struct {
	db *gorm.DB
}

var _ book.Repository = (*BookRepository)(nil)

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create 创建图书
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "创建图书失败")
	}
	b.ID = model.ID
	return nil
}

// FindByID 根据ID查找图书
func (r *BookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *BookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书信息
// 不更新stock列,库存只能经AdjustStock原子变更
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"title":            b.Title,
			"author":           b.Author,
			"publisher":        b.Publisher,
			"publication_year": b.PublicationYear,
			"price":            b.Price,
			"category_id":      b.CategoryID,
			"description":      b.Description,
			"updated_at":       b.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete 删除图书
func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书
func (r *BookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	db := getDB(ctx, r.db).Model(&BookModel{})

	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		db = db.Where("title LIKE ? OR author LIKE ?", kw, kw)
	}
	if params.CategoryID > 0 {
		db = db.Where("category_id = ?", params.CategoryID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计图书数量失败")
	}

	order := "created_at DESC"
	switch params.SortBy {
	case "price_asc":
		order = "price ASC"
	case "price_desc":
		order = "price DESC"
	case "title":
		order = "title ASC"
	}

	var models []BookModel
	offset := (params.Page - 1) * params.PageSize
	if err := db.Order(order).Offset(offset).Limit(params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询图书列表失败")
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, total, nil
}

// LockByID 加排它锁查询图书(SELECT ... FOR UPDATE)
// 必须在事务中调用,锁在事务提交或回滚时释放
func (r *BookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// AdjustStock 原子调整库存
// 条件更新保证并发下库存不会被扣成负数:
//
//	UPDATE books SET stock = stock + ? WHERE id = ? AND stock + ? >= 0
//
// 0行受影响时需区分"图书不存在"与"库存不足"两种原因
func (r *BookRepository) AdjustStock(ctx context.Context, id uint, delta int) (int, error) {
	db := getDB(ctx, r.db)

	result := db.Model(&BookModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "调整库存失败")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询图书失败")
		}
		if count == 0 {
			return 0, book.ErrBookNotFound
		}
		return 0, book.ErrInsufficientStock
	}

	var stock int
	if err := db.Model(&BookModel{}).Where("id = ?", id).Select("stock").Scan(&stock).Error; err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询库存失败")
	}
	return stock, nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Price:           b.Price,
		Stock:           b.Stock,
		CategoryID:      b.CategoryID,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:              m.ID,
		ISBN:            m.ISBN,
		Title:           m.Title,
		Author:          m.Author,
		Publisher:       m.Publisher,
		PublicationYear: m.PublicationYear,
		Price:           m.Price,
		Stock:           m.Stock,
		CategoryID:      m.CategoryID,
		Description:     m.Description,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
