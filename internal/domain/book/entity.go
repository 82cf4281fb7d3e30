package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN作为业务唯一标识(数据库层保证唯一性)
// 3. Stock是库存的唯一事实来源,不允许绕过AdjustStock直接改写
// 4. CategoryID关联图书分类
type Book struct {
	ID              uint
	ISBN            string
	Title           string
	Author          string
	Publisher       string
	PublicationYear int
	Price           int64 // 价格(单位:分,1元=100分)
	Stock           int   // 库存数量,永不为负
	CategoryID      uint
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(isbn, title, author, publisher string, publicationYear int, price int64, stock int, categoryID uint, description string) *Book {
	now := time.Now()
	return &Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		PublicationYear: publicationYear,
		Price:           price,
		Stock:           stock,
		CategoryID:      categoryID,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// CanFulfill 判断当前库存能否满足购买数量
func (b *Book) CanFulfill(quantity int) bool {
	return quantity > 0 && b.Stock >= quantity
}

// DecrStock 扣减库存(领域行为)
// 业务规则:扣减后库存不能为负数
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Stock < quantity {
		return ErrInsufficientStock
	}
	b.Stock -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// IncrStock 增加库存(用于补偿、退货、补货)
func (b *Book) IncrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.Stock += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息(空字段不覆盖)
func (b *Book) UpdateInfo(title, author, publisher, description string, publicationYear int) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if description != "" {
		b.Description = description
	}
	if publicationYear > 0 {
		b.PublicationYear = publicationYear
	}
	b.UpdatedAt = time.Now()
}
