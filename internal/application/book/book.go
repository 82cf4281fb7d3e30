package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// PublishBookInput 图书发布输入
type PublishBookInput struct {
	ISBN            string
	Title           string
	Author          string
	Publisher       string
	PublicationYear int
	Price           int64 // 分
	Stock           int
	CategoryID      uint
	Description     string
}

// UpdateBookInput 图书信息更新输入(空字段不更新)
type UpdateBookInput struct {
	Title           string
	Author          string
	Publisher       string
	Description     string
	PublicationYear int
}

// BookUseCase 图书管理用例
// 读路径走Cache-Aside缓存,写路径更新数据库后删除缓存
type BookUseCase struct {
	bookService book.Service
	bookRepo    book.Repository
	cache       *redis.BookCache
	publisher   event.Publisher
}

// NewBookUseCase 创建图书管理用例
func NewBookUseCase(
	bookService book.Service,
	bookRepo book.Repository,
	cache *redis.BookCache,
	publisher event.Publisher,
) *BookUseCase {
	return &BookUseCase{
		bookService: bookService,
		bookRepo:    bookRepo,
		cache:       cache,
		publisher:   publisher,
	}
}

// Publish 发布图书
func (uc *BookUseCase) Publish(ctx context.Context, input PublishBookInput) (*book.Book, error) {
	b, err := uc.bookService.PublishBook(ctx,
		input.ISBN, input.Title, input.Author, input.Publisher,
		input.PublicationYear, input.Price, input.Stock,
		input.CategoryID, input.Description)
	if err != nil {
		return nil, err
	}

	logger.L.Info("图书发布成功",
		zap.Uint("book_id", b.ID),
		zap.String("isbn", b.ISBN),
		zap.String("title", b.Title))
	return b, nil
}

// GetByID 查询图书详情(先缓存后数据库)
func (uc *BookUseCase) GetByID(ctx context.Context, id uint) (*book.Book, error) {
	if uc.cache != nil {
		if cached, _ := uc.cache.Get(ctx, id); cached != nil {
			return cached, nil
		}
	}

	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, b)
	}
	return b, nil
}

// GetByISBN 根据ISBN查询图书
func (uc *BookUseCase) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return uc.bookService.GetBookByISBN(ctx, isbn)
}

// List 分页查询图书
func (uc *BookUseCase) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return uc.bookService.ListBooks(ctx, params)
}

// UpdateInfo 更新图书基本信息
func (uc *BookUseCase) UpdateInfo(ctx context.Context, id uint, input UpdateBookInput) (*book.Book, error) {
	b, err := uc.bookService.UpdateBookInfo(ctx, id,
		input.Title, input.Author, input.Publisher,
		input.Description, input.PublicationYear)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return b, nil
}

// UpdatePrice 更新图书价格
// 历史订单与已在购物车中的条目持有价格快照,不受影响
func (uc *BookUseCase) UpdatePrice(ctx context.Context, id uint, newPrice int64) (*book.Book, error) {
	b, err := uc.bookService.UpdateBookPrice(ctx, id, newPrice)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return b, nil
}

// Delete 删除图书
func (uc *BookUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

// AdjustStock 调整库存(进货为正,盘亏报损为负)
// 单本图书一次调整,整体成功或失败,返回调整后的库存量
func (uc *BookUseCase) AdjustStock(ctx context.Context, id uint, delta int) (int, error) {
	if delta == 0 {
		b, err := uc.bookRepo.FindByID(ctx, id)
		if err != nil {
			return 0, err
		}
		return b.Stock, nil
	}

	newStock, err := uc.bookRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		return 0, err
	}

	uc.invalidate(ctx, id)
	metrics.IncStockAdjustment(delta)
	logger.L.Info("库存调整",
		zap.Uint("book_id", id),
		zap.Int("delta", delta),
		zap.Int("new_stock", newStock))

	evt := event.StockAdjustedEvent{
		BookID:     id,
		Delta:      delta,
		NewStock:   newStock,
		AdjustedAt: time.Now(),
	}
	if err := uc.publisher.Publish(ctx, event.RoutingKeyStockAdjusted, evt); err != nil {
		logger.L.Warn("发布库存调整事件失败", zap.Uint("book_id", id), zap.Error(err))
	}

	return newStock, nil
}

func (uc *BookUseCase) invalidate(ctx context.Context, id uint) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, id)
	}
}
