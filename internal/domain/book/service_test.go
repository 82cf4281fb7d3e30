package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	books  map[uint]*Book
	byISBN map[string]*Book
	nextID uint
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		books:  make(map[uint]*Book),
		byISBN: make(map[string]*Book),
		nextID: 1,
	}
}

func (r *stubRepo) Create(ctx context.Context, b *Book) error {
	if _, exists := r.byISBN[b.ISBN]; exists {
		return ErrISBNDuplicate
	}
	b.ID = r.nextID
	r.nextID++
	r.books[b.ID] = b
	r.byISBN[b.ISBN] = b
	return nil
}

func (r *stubRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return b, nil
}

func (r *stubRepo) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	b, ok := r.byISBN[isbn]
	if !ok {
		return nil, ErrBookNotFound
	}
	return b, nil
}

func (r *stubRepo) Update(ctx context.Context, b *Book) error { return nil }

func (r *stubRepo) Delete(ctx context.Context, id uint) error {
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	delete(r.byISBN, b.ISBN)
	delete(r.books, id)
	return nil
}

func (r *stubRepo) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return nil, 0, nil
}

func (r *stubRepo) LockByID(ctx context.Context, id uint) (*Book, error) {
	return r.FindByID(ctx, id)
}

func (r *stubRepo) AdjustStock(ctx context.Context, id uint, delta int) (int, error) {
	b, ok := r.books[id]
	if !ok {
		return 0, ErrBookNotFound
	}
	if b.Stock+delta < 0 {
		return 0, ErrInsufficientStock
	}
	b.Stock += delta
	return b.Stock, nil
}

func TestService_PublishBook(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	b, err := svc.PublishBook(ctx, "978-7-115-42802-8", "Go语言实战", "William Kennedy",
		"人民邮电出版社", 2017, 2999, 100, 1, "")
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, int64(2999), b.Price)
	assert.Equal(t, 100, b.Stock)
}

func TestService_PublishBook_Validation(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		isbn    string
		price   int64
		stock   int
		wantErr error
	}{
		{"ISBN位数不对", "12345", 2999, 10, ErrInvalidISBN},
		{"价格为0", "9787115428028", 0, 10, ErrInvalidPrice},
		{"价格为负", "9787115428028", -100, 10, ErrInvalidPrice},
		{"价格超上限", "9787115428028", 10000000, 10, ErrInvalidPrice},
		{"库存为负", "9787115428028", 2999, -1, ErrInvalidStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PublishBook(ctx, tt.isbn, "书名", "作者", "", 2020, tt.price, tt.stock, 0, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_PublishBook_DuplicateISBN(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	_, err := svc.PublishBook(ctx, "9787115428028", "第一本", "作者", "", 2020, 2999, 10, 0, "")
	require.NoError(t, err)

	_, err = svc.PublishBook(ctx, "9787115428028", "第二本", "作者", "", 2020, 3999, 5, 0, "")
	assert.ErrorIs(t, err, ErrISBNDuplicate)
}

func TestService_UpdateBookPrice(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	ctx := context.Background()

	b, err := svc.PublishBook(ctx, "9787115428028", "书名", "作者", "", 2020, 2999, 10, 0, "")
	require.NoError(t, err)

	updated, err := svc.UpdateBookPrice(ctx, b.ID, 3999)
	require.NoError(t, err)
	assert.Equal(t, int64(3999), updated.Price)

	_, err = svc.UpdateBookPrice(ctx, b.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.UpdateBookPrice(ctx, 999, 3999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestIsValidISBN(t *testing.T) {
	assert.True(t, isValidISBN("9787115428028"))
	assert.True(t, isValidISBN("978-7-115-42802-8"))
	assert.True(t, isValidISBN("7115428026"))
	assert.True(t, isValidISBN("711542802X"))
	assert.False(t, isValidISBN(""))
	assert.False(t, isValidISBN("12345"))
	assert.False(t, isValidISBN("97871154280281234"))
}

func TestBook_StockHelpers(t *testing.T) {
	b := &Book{Stock: 3}
	assert.True(t, b.CanFulfill(3))
	assert.False(t, b.CanFulfill(4))
}
