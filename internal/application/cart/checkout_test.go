package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appOrder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
)

// ---------- 内存仓储 ----------

type memBookRepo struct {
	mu    sync.Mutex
	books map[uint]*book.Book
}

func newMemBookRepo(books ...*book.Book) *memBookRepo {
	r := &memBookRepo{books: make(map[uint]*book.Book)}
	for _, b := range books {
		copied := *b
		r.books[b.ID] = &copied
	}
	return r
}

func (r *memBookRepo) Create(ctx context.Context, b *book.Book) error { return nil }

func (r *memBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return nil, book.ErrBookNotFound
}

func (r *memBookRepo) Update(ctx context.Context, b *book.Book) error { return nil }
func (r *memBookRepo) Delete(ctx context.Context, id uint) error      { return nil }

func (r *memBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *memBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *memBookRepo) AdjustStock(ctx context.Context, id uint, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return 0, book.ErrBookNotFound
	}
	if b.Stock+delta < 0 {
		return 0, book.ErrInsufficientStock
	}
	b.Stock += delta
	return b.Stock, nil
}

func (r *memBookRepo) stockOf(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[id].Stock
}

type memOrderRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[uint]*order.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{nextID: 1, orders: make(map[uint]*order.Order)}
}

func (r *memOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	copied := *o
	r.orders[o.ID] = &copied
	return nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *memOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			copied := *o
			return &copied, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	stored.Status = o.Status
	return nil
}

func (r *memOrderRepo) ListByCustomerEmail(ctx context.Context, email string, page, pageSize int) ([]*order.Order, int64, error) {
	return nil, 0, nil
}

func (r *memOrderRepo) Delete(ctx context.Context, id uint) error { return nil }

func (r *memOrderRepo) statusOf(id uint) order.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id].Status
}

type memCartRepo struct {
	mu    sync.Mutex
	carts map[uint]*cart.ShoppingCart

	// failDeletes>0时Delete返回内部错误(模拟存储故障触发补偿)
	failDeletes int
}

func newMemCartRepo(carts ...*cart.ShoppingCart) *memCartRepo {
	r := &memCartRepo{carts: make(map[uint]*cart.ShoppingCart)}
	for _, c := range carts {
		copied := *c
		r.carts[c.ID] = &copied
	}
	return r
}

func (r *memCartRepo) Create(ctx context.Context, c *cart.ShoppingCart) error { return nil }

func (r *memCartRepo) FindByID(ctx context.Context, id uint) (*cart.ShoppingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memCartRepo) FindByCustomerEmail(ctx context.Context, email string) (*cart.ShoppingCart, error) {
	return nil, cart.ErrCartNotFound
}

func (r *memCartRepo) Update(ctx context.Context, c *cart.ShoppingCart) error { return nil }

func (r *memCartRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDeletes > 0 {
		r.failDeletes--
		return assert.AnError
	}
	if _, ok := r.carts[id]; !ok {
		return cart.ErrCartNotFound
	}
	delete(r.carts, id)
	return nil
}

func (r *memCartRepo) exists(id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.carts[id]
	return ok
}

// memTxManager 串行化事务,失败时回滚图书库存
type memTxManager struct {
	mu       sync.Mutex
	bookRepo *memBookRepo
}

func (m *memTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := make(map[uint]int)
	m.bookRepo.mu.Lock()
	for id, b := range m.bookRepo.books {
		snap[id] = b.Stock
	}
	m.bookRepo.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.bookRepo.mu.Lock()
		for id, stock := range snap {
			m.bookRepo.books[id].Stock = stock
		}
		m.bookRepo.mu.Unlock()
		return err
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return nil
}

func newCheckoutFixture(c *cart.ShoppingCart, books ...*book.Book) (*CheckoutUseCase, *memCartRepo, *memBookRepo, *memOrderRepo) {
	bookRepo := newMemBookRepo(books...)
	orderRepo := newMemOrderRepo()
	var cartRepo *memCartRepo
	if c != nil {
		cartRepo = newMemCartRepo(c)
	} else {
		cartRepo = newMemCartRepo()
	}
	txManager := &memTxManager{bookRepo: bookRepo}
	createOrderUC := appOrder.NewCreateOrderUseCase(orderRepo, bookRepo, txManager, nopPublisher{})
	uc := NewCheckoutUseCase(cartRepo, bookRepo, orderRepo, createOrderUC, nopPublisher{})
	return uc, cartRepo, bookRepo, orderRepo
}

func cartWithItems() *cart.ShoppingCart {
	c := cart.NewShoppingCart("reader@example.com")
	c.ID = 1
	// 加车时的价格快照:2999,即便图书现价更高也按快照成交
	_ = c.AddItem(1, 2, 2999)
	_ = c.AddItem(2, 1, 5000)
	return c
}

// ---------- 测试 ----------

func TestCheckout_Success(t *testing.T) {
	uc, cartRepo, bookRepo, _ := newCheckoutFixture(cartWithItems(),
		&book.Book{ID: 1, Price: 3999, Stock: 5},
		&book.Book{ID: 2, Price: 5000, Stock: 3},
	)

	o, err := uc.Execute(context.Background(), CheckoutInput{
		CartID:          1,
		ShippingAddress: "上海市浦东新区",
	})
	require.NoError(t, err)

	// 按加车快照价成交:2*2999 + 1*5000 = 10998
	assert.Equal(t, int64(10998), o.Total)
	assert.Equal(t, order.OrderStatusPending, o.Status)
	assert.Equal(t, "reader@example.com", o.CustomerEmail)

	// 库存扣减,购物车删除
	assert.Equal(t, 3, bookRepo.stockOf(1))
	assert.Equal(t, 2, bookRepo.stockOf(2))
	assert.False(t, cartRepo.exists(1))
}

func TestCheckout_EmptyCart(t *testing.T) {
	c := cart.NewShoppingCart("reader@example.com")
	c.ID = 1
	uc, cartRepo, _, _ := newCheckoutFixture(c)

	_, err := uc.Execute(context.Background(), CheckoutInput{CartID: 1, ShippingAddress: "地址"})
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
	assert.True(t, cartRepo.exists(1))
}

func TestCheckout_CartNotFound(t *testing.T) {
	uc, _, _, _ := newCheckoutFixture(nil)

	_, err := uc.Execute(context.Background(), CheckoutInput{CartID: 99, ShippingAddress: "地址"})
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestCheckout_InsufficientStockKeepsCart(t *testing.T) {
	uc, cartRepo, bookRepo, _ := newCheckoutFixture(cartWithItems(),
		&book.Book{ID: 1, Price: 2999, Stock: 5},
		&book.Book{ID: 2, Price: 5000, Stock: 0},
	)

	_, err := uc.Execute(context.Background(), CheckoutInput{CartID: 1, ShippingAddress: "地址"})
	assert.ErrorIs(t, err, book.ErrInsufficientStock)

	// 整单失败:库存不动,购物车保留,客户可调整后重试
	assert.Equal(t, 5, bookRepo.stockOf(1))
	assert.Equal(t, 0, bookRepo.stockOf(2))
	assert.True(t, cartRepo.exists(1))
}

func TestCheckout_AtMostOnce(t *testing.T) {
	uc, _, bookRepo, _ := newCheckoutFixture(cartWithItems(),
		&book.Book{ID: 1, Price: 2999, Stock: 5},
		&book.Book{ID: 2, Price: 5000, Stock: 3},
	)

	_, err := uc.Execute(context.Background(), CheckoutInput{CartID: 1, ShippingAddress: "地址"})
	require.NoError(t, err)

	// 第二次结算同一购物车:加载阶段就失败,库存不再变动
	_, err = uc.Execute(context.Background(), CheckoutInput{CartID: 1, ShippingAddress: "地址"})
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
	assert.Equal(t, 3, bookRepo.stockOf(1))
	assert.Equal(t, 2, bookRepo.stockOf(2))
}

func TestCheckout_CompensatesWhenCartDeleteFails(t *testing.T) {
	uc, cartRepo, bookRepo, orderRepo := newCheckoutFixture(cartWithItems(),
		&book.Book{ID: 1, Price: 2999, Stock: 5},
		&book.Book{ID: 2, Price: 5000, Stock: 3},
	)
	cartRepo.failDeletes = 1

	_, err := uc.Execute(context.Background(), CheckoutInput{CartID: 1, ShippingAddress: "地址"})
	require.Error(t, err)

	// 补偿生效:订单取消,库存回补,购物车保留
	assert.Equal(t, order.OrderStatusCancelled, orderRepo.statusOf(1))
	assert.Equal(t, 5, bookRepo.stockOf(1))
	assert.Equal(t, 3, bookRepo.stockOf(2))
	assert.True(t, cartRepo.exists(1))
}
