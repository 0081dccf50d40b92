package readcount

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
)

const keyPrefix = "post:read:"

// Counter 文章阅读数计数器。写入先进 Redis，由定时任务批量刷回数据库，
// 避免每次浏览都打一次 UPDATE
type Counter struct {
	rdb *redis.Client
}

func NewCounter(rdb *redis.Client) *Counter {
	return &Counter{rdb: rdb}
}

// Incr 阅读数 +1
func (c *Counter) Incr(ctx context.Context, postID int64) error {
	return c.rdb.Incr(ctx, fmt.Sprintf("%s%d", keyPrefix, postID)).Err()
}

// Pending 获取某篇文章未刷库的计数
func (c *Counter) Pending(ctx context.Context, postID int64) (int64, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("%s%d", keyPrefix, postID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// Flush 把累积的计数写回数据库并清空对应 key，返回刷新的文章数
func (c *Counter) Flush(ctx context.Context, db *gorm.DB) (int, error) {
	keys, err := c.rdb.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	flushed := 0
	for _, key := range keys {
		idStr := strings.TrimPrefix(key, keyPrefix)
		postID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}

		// GETDEL 原子取出并删除，避免丢计数
		val, err := c.rdb.GetDel(ctx, key).Result()
		if err != nil {
			continue
		}
		count, err := strconv.ParseInt(val, 10, 64)
		if err != nil || count == 0 {
			continue
		}

		err = db.Model(&model.Post{}).Where("id = ?", postID).
			UpdateColumn("read_count", gorm.Expr("read_count + ?", count)).Error
		if err != nil {
			return flushed, err
		}
		flushed++
	}

	return flushed, nil
}
