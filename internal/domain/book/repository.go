package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	// 注意:Stock字段不在此方法的更新范围内,库存只能走AdjustStock
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表(关键词搜索、分类过滤、排序)
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 下单事务中锁定库存行,持锁期间其他事务对该行的
	// LockByID/AdjustStock必须等待,保证校验+扣减串行化
	LockByID(ctx context.Context, id uint) (*Book, error)

	// AdjustStock 调整库存(原子操作)
	// delta为正数表示增加(退货/补货),负数表示减少(销售/报损)。
	// 仅当调整后库存>=0时生效并返回新库存;
	// 否则库存保持不变,返回ErrInsufficientStock。
	// 单本图书上的并发调用必须表现为串行执行。
	AdjustStock(ctx context.Context, id uint, delta int) (int, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 搜索关键词(标题、作者、ISBN)
	CategoryID uint   // 分类过滤(0表示不过滤)
	SortBy     string // 排序字段(price_asc, price_desc, created_at_desc)
}
