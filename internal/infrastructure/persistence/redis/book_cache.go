package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/logger"
)

const bookKeyPrefix = "bookshop:book:"

// BookCache 图书详情缓存(Cache-Aside)
// 读路径:先查缓存,未命中回源数据库并回填;
// 写路径:数据库更新成功后删除缓存键,下次读取时重建。
// 缓存故障永不阻塞业务,降级为直查数据库。
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

func bookKey(id uint) string {
	return fmt.Sprintf("%s%d", bookKeyPrefix, id)
}

// Get 读取缓存,未命中返回(nil, nil)
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	data, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.L.Warn("读取图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
		return nil, nil
	}

	var b book.Book
	if err := json.Unmarshal(data, &b); err != nil {
		logger.L.Warn("解析图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
		c.client.Del(ctx, bookKey(id))
		return nil, nil
	}
	return &b, nil
}

// Set 写入缓存
func (c *BookCache) Set(ctx context.Context, b *book.Book) {
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, bookKey(b.ID), data, c.ttl).Err(); err != nil {
		logger.L.Warn("写入图书缓存失败", zap.Uint("book_id", b.ID), zap.Error(err))
	}
}

// Invalidate 删除缓存(图书信息、价格或库存变更后调用)
func (c *BookCache) Invalidate(ctx context.Context, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, bookKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.L.Warn("删除图书缓存失败", zap.Uints("book_ids", ids), zap.Error(err))
	}
}
