package player

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
)

// migrateDB 负责自动迁移Players表结构。
// Players表只有这一份规范schema，所有字段以此为准。
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Player{}); err != nil {
		return fmt.Errorf("无法迁移player表: %w", err)
	}
	fmt.Println("Player数据库表迁移成功。")
	return nil
}

// WarmupCache 从SQLite加载所有玩家ID并预热到Redis的Set中
func WarmupCache() error {
	if !database.CacheAvailable() {
		return nil
	}

	var players []Player
	if err := database.DB.Select("player_id").Find(&players).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取玩家ID: %w", err)
	}

	if len(players) == 0 {
		fmt.Println("无现有玩家数据，无需预热玩家缓存。")
		return nil
	}

	ids := make([]interface{}, len(players))
	for i, p := range players {
		ids[i] = p.PlayerID
	}

	// 先清空旧缓存再批量写入，保证集合与SQLite一致
	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, KnownPlayersKey)
	pipe.SAdd(database.Ctx, KnownPlayersKey, ids...)

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热玩家ID到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个玩家ID到Redis。\n", len(players))
	return nil
}

// PrimeCachedDB 是player模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
