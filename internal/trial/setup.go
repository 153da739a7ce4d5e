package trial

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
)

// migrateDB 负责自动迁移审判相关表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Trial{}, &Vote{}); err != nil {
		return fmt.Errorf("无法迁移trial表: %w", err)
	}
	fmt.Println("Trial与Trial_Votes数据库表迁移成功。")
	return nil
}

// WarmupCache 把进行中的审判预热到Redis
func WarmupCache() error {
	RefreshActiveCache()
	return nil
}

// PrimeCachedDB 是trial模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	return WarmupCache()
}
