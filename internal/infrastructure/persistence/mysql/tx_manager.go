package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/transaction"
)

type txKey struct{}

// TxManager 基于GORM的事务管理器
type TxManager struct {
	db *gorm.DB
}

var _ transaction.Manager = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 在事务中执行fn
// 事务句柄通过context传递给fn内的仓储调用,
// fn返回error或panic时回滚,否则提交。
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// getDB 从context中提取事务句柄,没有事务时用默认连接
// 所有仓储的数据库访问都必须经过此函数,
// 以保证用例层开启的事务能覆盖其中的全部仓储操作。
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
