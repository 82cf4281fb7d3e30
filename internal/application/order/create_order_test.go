package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
)

// ---------- 内存仓储与事务管理器 ----------

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

func (r *memBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.books[b.ID] = &copied
	return nil
}

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
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ISBN == isbn {
			copied := *b
			return &copied, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *memBookRepo) Update(ctx context.Context, b *book.Book) error {
	return nil
}

func (r *memBookRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

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

func (r *memBookRepo) snapshot() map[uint]book.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uint]book.Book, len(r.books))
	for id, b := range r.books {
		snap[id] = *b
	}
	return snap
}

func (r *memBookRepo) restore(snap map[uint]book.Book) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = make(map[uint]*book.Book, len(snap))
	for id, b := range snap {
		copied := b
		r.books[id] = &copied
	}
}

type memOrderRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[uint]*order.Order
	byNo   map[string]uint

	// failCreates前N次Create返回订单号冲突
	failCreates int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		nextID: 1,
		orders: make(map[uint]*order.Order),
		byNo:   make(map[string]uint),
	}
}

func (r *memOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		return order.ErrOrderNoDuplicate
	}
	if _, exists := r.byNo[o.OrderNo]; exists {
		return order.ErrOrderNoDuplicate
	}
	o.ID = r.nextID
	r.nextID++
	copied := *o
	r.orders[o.ID] = &copied
	r.byNo[o.OrderNo] = o.ID
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
	id, ok := r.byNo[orderNo]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *r.orders[id]
	return &copied, nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	stored.Status = o.Status
	stored.UpdatedAt = o.UpdatedAt
	return nil
}

func (r *memOrderRepo) ListByCustomerEmail(ctx context.Context, email string, page, pageSize int) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*order.Order
	for _, o := range r.orders {
		if o.CustomerEmail == email {
			copied := *o
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (r *memOrderRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	delete(r.byNo, o.OrderNo)
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// memTxManager 串行化事务管理器
// 整个事务持有全局锁(对应行锁的串行化效果),
// fn返回error时恢复图书与订单的快照(对应回滚)
type memTxManager struct {
	mu        sync.Mutex
	bookRepo  *memBookRepo
	orderRepo *memOrderRepo
}

func (m *memTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bookSnap := m.bookRepo.snapshot()
	m.orderRepo.mu.Lock()
	orderCount := len(m.orderRepo.orders)
	m.orderRepo.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.bookRepo.restore(bookSnap)
		m.orderRepo.mu.Lock()
		for id, o := range m.orderRepo.orders {
			if int(id) > orderCount {
				delete(m.orderRepo.byNo, o.OrderNo)
				delete(m.orderRepo.orders, id)
			}
		}
		m.orderRepo.mu.Unlock()
		return err
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return nil
}

func newTestUseCase(books ...*book.Book) (*CreateOrderUseCase, *memBookRepo, *memOrderRepo) {
	bookRepo := newMemBookRepo(books...)
	orderRepo := newMemOrderRepo()
	txManager := &memTxManager{bookRepo: bookRepo, orderRepo: orderRepo}
	uc := NewCreateOrderUseCase(orderRepo, bookRepo, txManager, nopPublisher{})
	return uc, bookRepo, orderRepo
}

// ---------- 测试 ----------

func TestCreateOrder_Success(t *testing.T) {
	uc, bookRepo, _ := newTestUseCase(
		&book.Book{ID: 1, ISBN: "9787115428028", Title: "Go语言实战", Price: 2999, Stock: 5},
	)

	o, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "上海市浦东新区",
		Lines:           []OrderLine{{BookID: 1, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, order.OrderStatusPending, o.Status)
	assert.Equal(t, int64(8997), o.Total)
	assert.Len(t, o.Items, 1)
	assert.Equal(t, int64(2999), o.Items[0].UnitPrice)
	assert.Equal(t, 2, bookRepo.stockOf(1))
	assert.Regexp(t, `^ORD-\d{8}-[0-9a-f]{8}$`, o.OrderNo)
}

func TestCreateOrder_AllOrNothing(t *testing.T) {
	uc, bookRepo, orderRepo := newTestUseCase(
		&book.Book{ID: 1, Price: 2999, Stock: 10},
		&book.Book{ID: 2, Price: 5000, Stock: 1},
	)

	// 第二本库存不足,整单失败,第一本库存不动
	_, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "北京市海淀区",
		Lines: []OrderLine{
			{BookID: 1, Quantity: 2},
			{BookID: 2, Quantity: 3},
		},
	})
	assert.ErrorIs(t, err, book.ErrInsufficientStock)
	assert.Equal(t, 10, bookRepo.stockOf(1))
	assert.Equal(t, 1, bookRepo.stockOf(2))
	assert.Equal(t, 0, orderRepo.count())
}

func TestCreateOrder_BookNotFound(t *testing.T) {
	uc, bookRepo, orderRepo := newTestUseCase(
		&book.Book{ID: 1, Price: 2999, Stock: 10},
	)

	_, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "地址",
		Lines: []OrderLine{
			{BookID: 1, Quantity: 1},
			{BookID: 99, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Equal(t, 10, bookRepo.stockOf(1))
	assert.Equal(t, 0, orderRepo.count())
}

func TestCreateOrder_Validation(t *testing.T) {
	uc, _, _ := newTestUseCase(&book.Book{ID: 1, Price: 2999, Stock: 10})

	_, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail: "reader@example.com",
		Lines:         []OrderLine{},
	})
	assert.ErrorIs(t, err, order.ErrInvalidOrderItems)

	_, err = uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail: "reader@example.com",
		Lines:         []OrderLine{{BookID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, order.ErrInvalidQuantity)

	_, err = uc.Execute(context.Background(), CreateOrderInput{
		Lines: []OrderLine{{BookID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, order.ErrInvalidCustomer)
}

func TestCreateOrder_RejectionNamesBook(t *testing.T) {
	// 多行订单被拒时,错误信息指明是哪本书出了问题
	uc, _, _ := newTestUseCase(
		&book.Book{ID: 1, Price: 2999, Stock: 10},
		&book.Book{ID: 7, Price: 5000, Stock: 1},
	)

	_, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "地址",
		Lines: []OrderLine{
			{BookID: 1, Quantity: 1},
			{BookID: 7, Quantity: 5},
		},
	})
	assert.ErrorIs(t, err, book.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "图书[7]")

	_, err = uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "地址",
		Lines: []OrderLine{
			{BookID: 1, Quantity: 1},
			{BookID: 99, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Contains(t, err.Error(), "图书[99]")
}

func TestCreateOrder_MergesDuplicateLines(t *testing.T) {
	uc, bookRepo, _ := newTestUseCase(&book.Book{ID: 1, Price: 2999, Stock: 10})

	o, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "地址",
		Lines: []OrderLine{
			{BookID: 1, Quantity: 2},
			{BookID: 1, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Len(t, o.Items, 1)
	assert.Equal(t, 3, o.Items[0].Quantity)
	assert.Equal(t, int64(8997), o.Total)
	assert.Equal(t, 7, bookRepo.stockOf(1))
}

func TestCreateOrder_CapturedUnitPrice(t *testing.T) {
	uc, _, _ := newTestUseCase(&book.Book{ID: 1, Price: 2999, Stock: 10})

	// 购物车结算传入加车时的价格快照,以快照价成交
	o, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "地址",
		Lines:           []OrderLine{{BookID: 1, Quantity: 2, UnitPrice: 1999}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1999), o.Items[0].UnitPrice)
	assert.Equal(t, int64(3998), o.Total)
}

func TestCreateOrder_OrderNoRetry(t *testing.T) {
	uc, _, orderRepo := newTestUseCase(&book.Book{ID: 1, Price: 2999, Stock: 10})

	// 前两次Create返回订单号冲突,第三次成功
	orderRepo.failCreates = 2
	o, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "地址",
		Lines:           []OrderLine{{BookID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.OrderNo)
}

func TestCreateOrder_OrderNoRetryExhausted(t *testing.T) {
	uc, bookRepo, orderRepo := newTestUseCase(&book.Book{ID: 1, Price: 2999, Stock: 10})

	orderRepo.failCreates = 10
	_, err := uc.Execute(context.Background(), CreateOrderInput{
		CustomerEmail:   "reader@example.com",
		ShippingAddress: "地址",
		Lines:           []OrderLine{{BookID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, order.ErrOrderNoDuplicate)
	assert.Equal(t, 10, bookRepo.stockOf(1))
}

func TestCreateOrder_ConcurrentContention(t *testing.T) {
	// 库存2,两个并发订单分别买2本和1本,恰好一个成功
	uc, bookRepo, orderRepo := newTestUseCase(&book.Book{ID: 1, Price: 2999, Stock: 2})

	quantities := []int{2, 1}
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, qty := range quantities {
		wg.Add(1)
		go func(i, qty int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), CreateOrderInput{
				CustomerEmail:   "reader@example.com",
				ShippingAddress: "地址",
				Lines:           []OrderLine{{BookID: 1, Quantity: qty}},
			})
		}(i, qty)
	}
	wg.Wait()

	var succeeded, failed int
	var soldQty int
	for i, err := range errs {
		if err == nil {
			succeeded++
			soldQty = quantities[i]
		} else {
			assert.ErrorIs(t, err, book.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2-soldQty, bookRepo.stockOf(1))
	assert.Equal(t, 1, orderRepo.count())
}

func TestCreateOrder_ConcurrentMultiBookContention(t *testing.T) {
	// 两本书各库存3,8个并发订单同时买两本,一半以相反顺序提交行项:
	// 升序加锁让跨书订单以相同顺序申请行锁,恰好3单成功,两本库存同时归零
	const stock = 3
	const workers = 8

	uc, bookRepo, orderRepo := newTestUseCase(
		&book.Book{ID: 1, Price: 2999, Stock: stock},
		&book.Book{ID: 2, Price: 5000, Stock: stock},
	)

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lines := []OrderLine{{BookID: 1, Quantity: 1}, {BookID: 2, Quantity: 1}}
			if i%2 == 1 {
				lines[0], lines[1] = lines[1], lines[0]
			}
			_, errs[i] = uc.Execute(context.Background(), CreateOrderInput{
				CustomerEmail:   "reader@example.com",
				ShippingAddress: "地址",
				Lines:           lines,
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, book.ErrInsufficientStock)
		}
	}
	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, bookRepo.stockOf(1))
	assert.Equal(t, 0, bookRepo.stockOf(2))
	assert.Equal(t, stock, orderRepo.count())
}

func TestCreateOrder_ConcurrentConservation(t *testing.T) {
	// 库存5,20个并发各买1本:恰好5单成功,库存归零,不超卖
	const stock = 5
	const workers = 20

	uc, bookRepo, orderRepo := newTestUseCase(&book.Book{ID: 1, Price: 2999, Stock: stock})

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), CreateOrderInput{
				CustomerEmail:   "reader@example.com",
				ShippingAddress: "地址",
				Lines:           []OrderLine{{BookID: 1, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, book.ErrInsufficientStock)
		}
	}
	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, bookRepo.stockOf(1))
	assert.Equal(t, stock, orderRepo.count())
}
