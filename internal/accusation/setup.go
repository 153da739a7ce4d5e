package accusation

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
)

// migrateDB 负责自动迁移指控表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Accusation{}); err != nil {
		return fmt.Errorf("无法迁移accusation表: %w", err)
	}
	fmt.Println("Accusation数据库表迁移成功。")
	return nil
}

// PrimeCachedDB 是accusation模块的初始化总入口。
// 指控走SQLite即可，待审批列表查询频率很低，不需要缓存。
func PrimeCachedDB() error {
	return migrateDB()
}
