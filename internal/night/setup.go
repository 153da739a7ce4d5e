package night

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
)

// migrateDB 负责自动迁移夜间行动相关表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&NightAction{}, &NightVote{}); err != nil {
		return fmt.Errorf("无法迁移night表: %w", err)
	}
	fmt.Println("NightAction与NightVote数据库表迁移成功。")
	return nil
}

// PrimeCachedDB 是night模块的初始化总入口。
// 行动日志是只追加的冷数据，不需要Redis预热。
func PrimeCachedDB() error {
	return migrateDB()
}
