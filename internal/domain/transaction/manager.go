// Package transaction 定义事务管理端口
// 由domain层声明接口,infrastructure层(mysql.TxManager)实现,
// 应用层用例据此保持存储无关,也便于单元测试替换为内存实现。
package transaction

import (
	"context"
)

// Manager 事务管理器接口
// fn内通过同一个ctx调用的所有仓储操作在同一事务中执行:
// fn返回error时整体回滚,返回nil时整体提交。
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
