package book

import (
	"context"
	"regexp"
)

// Service 图书领域服务接口
type Service interface {
	// PublishBook 发布图书(上架)
	// 业务规则:
	// - ISBN格式必须合法(10位或13位数字)
	// - 价格必须在1-9999999分之间
	// - 库存必须>=0
	// - ISBN不能重复
	PublishBook(ctx context.Context, isbn, title, author, publisher string, publicationYear int, price int64, stock int, categoryID uint, description string) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// UpdateBookInfo 更新图书基本信息
	UpdateBookInfo(ctx context.Context, id uint, title, author, publisher, description string, publicationYear int) (*Book, error)

	// UpdateBookPrice 更新图书价格
	// 价格变化不影响已有订单(订单保存的是下单时的价格快照)
	UpdateBookPrice(ctx context.Context, id uint, newPrice int64) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, isbn, title, author, publisher string, publicationYear int, price int64, stock int, categoryID uint, description string) (*Book, error) {
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}

	if price < 1 || price > 9999999 {
		return nil, ErrInvalidPrice
	}

	if stock < 0 {
		return nil, ErrInvalidStock
	}

	// ISBN查重(数据库唯一索引兜底,这里提前给出友好错误)
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existing != nil {
		return nil, ErrISBNDuplicate
	}
	if err != nil && err != ErrBookNotFound {
		return nil, err
	}

	b := NewBook(isbn, title, author, publisher, publicationYear, price, stock, categoryID, description)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}
	return s.repo.FindByISBN(ctx, isbn)
}

// UpdateBookInfo 更新图书基本信息
func (s *service) UpdateBookInfo(ctx context.Context, id uint, title, author, publisher, description string, publicationYear int) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.UpdateInfo(title, author, publisher, description, publicationYear)

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBookPrice 更新图书价格
func (s *service) UpdateBookPrice(ctx context.Context, id uint, newPrice int64) (*Book, error) {
	if newPrice < 1 || newPrice > 9999999 {
		return nil, ErrInvalidPrice
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.UpdatePrice(newPrice); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}

// isValidISBN 校验ISBN格式
// 支持ISBN-10和ISBN-13,允许分隔符(978-7-115-42802-8)
// 简化实现:只检查位数(生产环境应校验校验位)
func isValidISBN(isbn string) bool {
	re := regexp.MustCompile(`[^0-9Xx]`)
	clean := re.ReplaceAllString(isbn, "")

	length := len(clean)
	return length == 10 || length == 13
}
