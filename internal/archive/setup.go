package archive

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
)

// migrateDB 负责自动迁移存档表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("无法迁移archive表: %w", err)
	}
	fmt.Println("Archive数据库表迁移成功。")
	return nil
}

// PrimeCachedDB 是archive模块的初始化总入口。存档是冷数据，不走Redis。
func PrimeCachedDB() error {
	return migrateDB()
}
