package database

import (
	"context"
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是全局的Redis客户端实例。Redis只承担热数据缓存
// （游戏状态快照、已知玩家集合、当前审判ID），不是权威存储。
var RDB *redis.Client

// Ctx 是用于Redis操作的全局上下文
var Ctx = context.Background()

// InitRedis 初始化与Redis的连接
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	_, err := RDB.Ping(Ctx).Result()
	if err != nil {
		panic("无法连接到Redis: " + err.Error())
	}

	fmt.Println("Redis 连接成功！")
}

// CacheAvailable 报告缓存层当前是否可写。
// 测试环境不启动Redis，业务代码在写缓存前都应先检查它。
func CacheAvailable() bool {
	return RDB != nil && IsRedisHealthy()
}
