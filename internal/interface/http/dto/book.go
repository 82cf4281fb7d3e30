package dto

import (
	"fmt"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// PublishBookRequest 发布图书请求
type PublishBookRequest struct {
	ISBN            string `json:"isbn" binding:"required" example:"978-7-115-42802-8"`
	Title           string `json:"title" binding:"required" example:"Go语言实战"`
	Author          string `json:"author" binding:"required" example:"William Kennedy"`
	Publisher       string `json:"publisher" example:"人民邮电出版社"`
	PublicationYear int    `json:"publication_year" binding:"required" example:"2017"`
	Price           int64  `json:"price" binding:"required,min=1" example:"2999"` // 单位:分
	Stock           int    `json:"stock" binding:"min=0" example:"100"`
	CategoryID      uint   `json:"category_id" example:"1"`
	Description     string `json:"description"`
}

// UpdateBookRequest 更新图书信息请求(空字段不更新)
type UpdateBookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	Description     string `json:"description"`
}

// UpdateBookPriceRequest 更新价格请求
type UpdateBookPriceRequest struct {
	Price int64 `json:"price" binding:"required,min=1" example:"3999"` // 单位:分
}

// AdjustStockRequest 库存调整请求
// 正数补货,负数报损/盘亏
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required" example:"50"`
}

// BookResponse 图书响应
type BookResponse struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	Price           int64  `json:"price"`         // 单位:分
	PriceYuan       string `json:"price_display"` // 展示金额,如"29.99"
	Stock           int    `json:"stock"`
	CategoryID      uint   `json:"category_id"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// StockResponse 库存调整响应
type StockResponse struct {
	BookID   uint `json:"book_id"`
	NewStock int  `json:"new_stock"`
}

// FromBook 实体转响应
func FromBook(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Price:           b.Price,
		PriceYuan:       FormatPrice(b.Price),
		Stock:           b.Stock,
		CategoryID:      b.CategoryID,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromBooks 实体列表转响应列表
func FromBooks(books []*book.Book) []*BookResponse {
	result := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		result = append(result, FromBook(b))
	}
	return result
}

// FormatPrice 分转为元的展示串(2999 -> "29.99")
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
