package mission

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
)

// defaultMissions 是空表时播种的任务目录，每个一次性能力各对应一个任务
var defaultMissions = []Mission{
	{MissionID: "M001", Title: "渗透", Description: "在白天讨论中不被任何人指控", AbilityUnlocked: "MafiaCanConvert"},
	{MissionID: "M002", Title: "暗号", Description: "连续两晚提交击杀目标", AbilityUnlocked: "MafiaCanRevealSelf"},
	{MissionID: "M003", Title: "妙手回春", Description: "成功救下一名被袭击的玩家", AbilityUnlocked: "DoctorCanRevive"},
	{MissionID: "M004", Title: "身份危机", Description: "在一场审判中投出关键一票", AbilityUnlocked: "VillagerCanChangeRole"},
	{MissionID: "M005", Title: "民意领袖", Description: "连续三天参与处决投票", AbilityUnlocked: "VillagerCanIncreaseVote"},
}

// migrateDB 负责自动迁移任务表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Mission{}); err != nil {
		return fmt.Errorf("无法迁移mission表: %w", err)
	}
	fmt.Println("Mission数据库表迁移成功。")
	return nil
}

// seedCatalog 在空表时写入默认任务目录
func seedCatalog() error {
	var count int64
	if err := database.DB.Model(&Mission{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法检查任务目录: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := database.DB.Create(&defaultMissions).Error; err != nil {
		return fmt.Errorf("无法写入默认任务目录: %w", err)
	}
	fmt.Printf("已写入 %d 个默认任务。\n", len(defaultMissions))
	return nil
}

// PrimeCachedDB 是mission模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	return seedCatalog()
}
