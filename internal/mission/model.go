package mission

import (
	"gorm.io/gorm"
)

// Mission 是任务目录的一行配置。
// AbilityUnlocked 必须是Players表中已知的能力名，完成任务时据此点亮对应标志。
type Mission struct {
	gorm.Model

	// MissionID 是任务的业务主键，例如 "M001"
	MissionID string `gorm:"uniqueIndex;not null" json:"missionId"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// AbilityUnlocked 是完成任务后解锁的能力名
	AbilityUnlocked string `json:"abilityUnlocked"`
}
