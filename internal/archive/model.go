package archive

import (
	"gorm.io/gorm"
)

// 事件类型常量，对应存档表ActionType列的取值
const (
	EventNightKill    = "NightKill"
	EventSheriffShot  = "SheriffShot"
	EventTrialVerdict = "TrialVerdict"
)

// 事件结果常量
const (
	OutcomeDied      = "Died"
	OutcomeSaved     = "Saved"
	OutcomeGuilty    = "Guilty"
	OutcomeNotGuilty = "NotGuilty"
)

// Entry 是游戏事件存档的一行。所有已结算的公开事件都落在这里，
// 每日简报完全由本表聚合得出。
type Entry struct {
	gorm.Model

	// Day 是事件发生的游戏天数
	Day int `gorm:"index" json:"day"`

	// ActionType 是事件类型，见上方常量
	ActionType string `json:"actionType"`

	// Details 是给玩家看的一句话描述
	Details string `json:"details"`

	// PlayerIDsInvolved 是逗号分隔的相关玩家ID列表
	PlayerIDsInvolved string `json:"playerIdsInvolved"`

	// Outcome 是事件的最终结果
	Outcome string `json:"outcome"`
}
