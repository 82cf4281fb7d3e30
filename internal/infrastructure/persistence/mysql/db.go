package mysql

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

// BookModel 图书表
type BookModel struct {
	ID              uint   `gorm:"primaryKey"`
	ISBN            string `gorm:"uniqueIndex;size:20;not null"`
	Title           string `gorm:"size:200;not null;index"`
	Author          string `gorm:"size:100;not null;index"`
	Publisher       string `gorm:"size:100"`
	PublicationYear int    `gorm:"not null"`
	Price           int64  `gorm:"not null"` // 单位:分
	Stock           int    `gorm:"not null;default:0"`
	CategoryID      uint   `gorm:"index"`
	Description     string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CategoryModel 分类表
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:50;not null"`
	Description string `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

// CartModel 购物车表
// customer_email唯一索引保证每个客户至多一个购物车
type CartModel struct {
	ID            uint            `gorm:"primaryKey"`
	CustomerEmail string          `gorm:"uniqueIndex;size:100;not null"`
	TotalAmount   int64           `gorm:"not null;default:0"`
	Items         []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel 购物车明细表
type CartItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	CartID    uint  `gorm:"index;not null"`
	BookID    uint  `gorm:"not null"`
	Quantity  int   `gorm:"not null"`
	UnitPrice int64 `gorm:"not null"`
	Subtotal  int64 `gorm:"not null"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel 订单表
type OrderModel struct {
	ID              uint             `gorm:"primaryKey"`
	OrderNo         string           `gorm:"uniqueIndex;size:32;not null"`
	CustomerEmail   string           `gorm:"index;size:100;not null"`
	ShippingAddress string           `gorm:"size:500"`
	Total           int64            `gorm:"not null"`
	Status          int              `gorm:"not null;default:1;index"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 订单明细表(下单时刻的价格快照)
type OrderItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	OrderID   uint  `gorm:"index;not null"`
	BookID    uint  `gorm:"not null"`
	Quantity  int   `gorm:"not null"`
	UnitPrice int64 `gorm:"not null"`
	Subtotal  int64 `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// NewDB 创建数据库连接并执行迁移
func NewDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&CategoryModel{},
		&BookModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}
