package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/transaction"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// maxOrderNoRetries 订单号冲突时的最大重试次数
const maxOrderNoRetries = 3

// OrderLine 下单行:图书与购买数量
// UnitPrice为0时以锁定行的当前价格成交;
// 购物车结算传入加车时的快照价格,则以快照价成交。
type OrderLine struct {
	BookID    uint
	Quantity  int
	UnitPrice int64
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	CustomerEmail   string
	ShippingAddress string
	Lines           []OrderLine
}

// CreateOrderUseCase 下单用例(库存预留与订单提交的核心)
//
// 全部校验、扣减与订单写入在单个事务中完成,整体成功或整体失败:
//  1. 合并重复图书行,按BookID升序排列(固定加锁顺序防死锁)
//  2. 逐本SELECT FOR UPDATE锁行,校验存在性与库存充足
//  3. 以锁定行的价格(或传入的快照价)固化订单明细
//  4. 写入订单,订单号冲突时换号重试
//  5. 逐本原子扣减库存
//
// 任何一步失败整个事务回滚,库存与订单表均无残留。
type CreateOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager transaction.Manager
	publisher event.Publisher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager transaction.Manager,
	publisher event.Publisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// Execute 执行下单
func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*order.Order, error) {
	start := time.Now()

	if input.CustomerEmail == "" {
		metrics.IncRejection("validation")
		return nil, order.ErrInvalidCustomer
	}
	if len(input.Lines) == 0 {
		metrics.IncRejection("validation")
		return nil, order.ErrInvalidOrderItems
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			metrics.IncRejection("validation")
			return nil, order.ErrInvalidQuantity
		}
	}

	lines := mergeLines(input.Lines)

	var created *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 锁行并校验库存,顺带取成交价
		// 拒绝时错误信息带上图书ID,调用方无需反查哪一行出了问题
		items := make([]order.OrderItem, 0, len(lines))
		for _, line := range lines {
			b, err := uc.bookRepo.LockByID(txCtx, line.BookID)
			if err != nil {
				if errors.Is(err, book.ErrBookNotFound) {
					return apperrors.Wrapf(err, apperrors.ErrCodeBookNotFound,
						"图书[%d]不存在", line.BookID)
				}
				return err
			}
			if !b.CanFulfill(line.Quantity) {
				logger.L.Info("下单被拒:库存不足",
					zap.Uint("book_id", b.ID),
					zap.Int("stock", b.Stock),
					zap.Int("requested", line.Quantity))
				return apperrors.Wrapf(book.ErrInsufficientStock, apperrors.ErrCodeInsufficientStock,
					"图书[%d]库存不足: 剩余%d, 需求%d", b.ID, b.Stock, line.Quantity)
			}

			unitPrice := line.UnitPrice
			if unitPrice <= 0 {
				unitPrice = b.Price
			}
			items = append(items, order.OrderItem{
				BookID:    line.BookID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
			})
		}

		// 写入订单,订单号冲突时换号重试
		o, err := uc.createWithRetry(txCtx, input, items)
		if err != nil {
			return err
		}

		// 扣减库存(行已锁定,条件更新是第二道防线)
		for _, line := range lines {
			if _, err := uc.bookRepo.AdjustStock(txCtx, line.BookID, -line.Quantity); err != nil {
				if errors.Is(err, book.ErrInsufficientStock) {
					return apperrors.Wrapf(err, apperrors.ErrCodeInsufficientStock,
						"图书[%d]库存不足", line.BookID)
				}
				return err
			}
		}

		created = o
		return nil
	})
	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	metrics.IncOrderCreated()
	metrics.ObserveCommitDuration(time.Since(start).Seconds())
	logger.L.Info("订单创建成功",
		zap.String("order_no", created.OrderNo),
		zap.String("customer", created.CustomerEmail),
		zap.Int64("total", created.Total))

	uc.publishCreated(ctx, created)
	return created, nil
}

// createWithRetry 写入订单,订单号唯一索引冲突时换号重试
func (uc *CreateOrderUseCase) createWithRetry(ctx context.Context, input CreateOrderInput, items []order.OrderItem) (*order.Order, error) {
	var lastErr error
	for i := 0; i < maxOrderNoRetries; i++ {
		itemsCopy := make([]order.OrderItem, len(items))
		copy(itemsCopy, items)

		o := order.NewOrder(order.GenerateOrderNo(), input.CustomerEmail, input.ShippingAddress, itemsCopy)
		err := uc.orderRepo.Create(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, order.ErrOrderNoDuplicate) {
			return nil, err
		}
		lastErr = err
		logger.L.Warn("订单号冲突,换号重试", zap.String("order_no", o.OrderNo), zap.Int("attempt", i+1))
	}
	return nil, lastErr
}

func (uc *CreateOrderUseCase) publishCreated(ctx context.Context, o *order.Order) {
	evt := event.OrderCreatedEvent{
		OrderID:       o.ID,
		OrderNo:       o.OrderNo,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
		ItemCount:     len(o.Items),
		CreatedAt:     o.CreatedAt,
	}
	if err := uc.publisher.Publish(ctx, event.RoutingKeyOrderCreated, evt); err != nil {
		logger.L.Warn("发布订单创建事件失败", zap.String("order_no", o.OrderNo), zap.Error(err))
	}
}

func (uc *CreateOrderUseCase) recordRejection(err error) {
	switch {
	case errors.Is(err, book.ErrBookNotFound):
		metrics.IncRejection("not_found")
	case errors.Is(err, book.ErrInsufficientStock):
		metrics.IncRejection("insufficient_stock")
	case errors.Is(err, order.ErrInvalidQuantity), errors.Is(err, order.ErrInvalidOrderItems):
		metrics.IncRejection("validation")
	default:
		metrics.IncRejection("storage")
	}
}

// mergeLines 合并重复图书行并按BookID升序排列
// 同一本书出现多行时数量相加,价格取首行;
// 升序加锁使并发事务以相同顺序申请行锁,避免死锁
func mergeLines(lines []OrderLine) []OrderLine {
	merged := make(map[uint]OrderLine, len(lines))
	for _, line := range lines {
		if existing, ok := merged[line.BookID]; ok {
			existing.Quantity += line.Quantity
			merged[line.BookID] = existing
		} else {
			merged[line.BookID] = line
		}
	}

	result := make([]OrderLine, 0, len(merged))
	for _, line := range merged {
		result = append(result, line)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].BookID < result[j].BookID
	})
	return result
}
