package gamestate

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
)

// migrateDB 负责自动迁移Game_State表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&GameState{}); err != nil {
		return fmt.Errorf("无法迁移gamestate表: %w", err)
	}
	fmt.Println("GameState数据库表迁移成功。")
	return nil
}

// seedInitialState 在空表时写入第1天白天的初始状态
func seedInitialState() error {
	var count int64
	if err := database.DB.Model(&GameState{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法检查游戏状态表: %w", err)
	}
	if count > 0 {
		return nil
	}

	initial := GameState{CurrentDay: 1, Phase: PhaseDay}
	if err := database.DB.Create(&initial).Error; err != nil {
		return fmt.Errorf("无法写入初始游戏状态: %w", err)
	}
	fmt.Println("已写入初始游戏状态 (第1天, 白天)。")
	return nil
}

// WarmupCache 把最新状态预热到Redis
func WarmupCache() error {
	RefreshCache()
	return nil
}

// PrimeCachedDB 是gamestate模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := seedInitialState(); err != nil {
		return err
	}
	return WarmupCache()
}
