package cart

import (
	"context"
	"time"

	"go.uber.org/zap"

	appOrder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/saga"
)

// CheckoutInput 结算输入
type CheckoutInput struct {
	CartID          uint
	ShippingAddress string
}

// CheckoutUseCase 购物车结算编排
//
// 将购物车转化为订单,至多成交一次:
//  1. 加载购物车,空车拒绝
//  2. 以车中条目(含加车时的价格快照)调用下单用例,
//     库存校验、扣减与订单写入在下单事务内整体完成
//  3. 订单提交成功后删除购物车
//
// 删除购物车失败时(如并发结算已把车删掉)走Saga补偿:
// 取消刚创建的订单并回补库存,保证不会一车两单。
// 第二次结算同一购物车在加载阶段即得到ErrCartNotFound。
type CheckoutUseCase struct {
	cartRepo      cart.Repository
	bookRepo      book.Repository
	orderRepo     order.Repository
	createOrderUC *appOrder.CreateOrderUseCase
	publisher     event.Publisher
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	cartRepo cart.Repository,
	bookRepo book.Repository,
	orderRepo order.Repository,
	createOrderUC *appOrder.CreateOrderUseCase,
	publisher event.Publisher,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:      cartRepo,
		bookRepo:      bookRepo,
		orderRepo:     orderRepo,
		createOrderUC: createOrderUC,
		publisher:     publisher,
	}
}

// Execute 执行结算
func (uc *CheckoutUseCase) Execute(ctx context.Context, input CheckoutInput) (*order.Order, error) {
	c, err := uc.cartRepo.FindByID(ctx, input.CartID)
	if err != nil {
		metrics.IncCheckout("rejected")
		return nil, err
	}
	if c.IsEmpty() {
		metrics.IncCheckout("rejected")
		return nil, cart.ErrEmptyCart
	}

	lines := make([]appOrder.OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, appOrder.OrderLine{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	var created *order.Order
	compensated := false

	s := saga.New(30 * time.Second)
	s.AddStep("创建订单",
		func(stepCtx context.Context) error {
			o, err := uc.createOrderUC.Execute(stepCtx, appOrder.CreateOrderInput{
				CustomerEmail:   c.CustomerEmail,
				ShippingAddress: input.ShippingAddress,
				Lines:           lines,
			})
			if err != nil {
				return err
			}
			created = o
			return nil
		},
		func(compCtx context.Context) error {
			compensated = true
			return uc.cancelOrderAndRestock(compCtx, created)
		},
	)
	s.AddStep("删除购物车",
		func(stepCtx context.Context) error {
			return uc.cartRepo.Delete(stepCtx, c.ID)
		},
		nil,
	)

	if err := s.Execute(ctx); err != nil {
		if compensated {
			metrics.IncCheckout("compensated")
		} else {
			metrics.IncCheckout("rejected")
		}
		return nil, err
	}

	metrics.IncCheckout("success")
	logger.L.Info("购物车结算成功",
		zap.Uint("cart_id", c.ID),
		zap.String("order_no", created.OrderNo),
		zap.Int64("total", created.Total))

	evt := event.CartCheckedOutEvent{
		CartID:        c.ID,
		CustomerEmail: c.CustomerEmail,
		OrderNo:       created.OrderNo,
		Total:         created.Total,
		CheckedOutAt:  time.Now(),
	}
	if err := uc.publisher.Publish(ctx, event.RoutingKeyCartCheckedOut, evt); err != nil {
		logger.L.Warn("发布结算事件失败", zap.Uint("cart_id", c.ID), zap.Error(err))
	}

	return created, nil
}

// cancelOrderAndRestock 结算补偿:取消订单并回补库存
func (uc *CheckoutUseCase) cancelOrderAndRestock(ctx context.Context, o *order.Order) error {
	if o == nil {
		return nil
	}

	if err := o.Cancel(); err != nil {
		return err
	}
	if err := uc.orderRepo.UpdateStatus(ctx, o); err != nil {
		return err
	}

	for _, item := range o.Items {
		if _, err := uc.bookRepo.AdjustStock(ctx, item.BookID, item.Quantity); err != nil {
			logger.L.Error("补偿回补库存失败",
				zap.String("order_no", o.OrderNo),
				zap.Uint("book_id", item.BookID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			return err
		}
	}

	logger.L.Warn("结算已补偿:订单取消,库存回补", zap.String("order_no", o.OrderNo))
	return nil
}
