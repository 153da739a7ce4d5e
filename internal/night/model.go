package night

import (
	"gorm.io/gorm"
)

// ActionType 定义了夜间行动的枚举类型
type ActionType string

const (
	ActionKill         ActionType = "Kill"
	ActionProtect      ActionType = "Protect"
	ActionInvestigate  ActionType = "Investigate"
	ActionConvert      ActionType = "Convert"
	ActionReveal       ActionType = "Reveal"
	ActionRevive       ActionType = "Revive"
	ActionChangeRole   ActionType = "ChangeRole"
	ActionIncreaseVote ActionType = "IncreaseVote"
	ActionShoot        ActionType = "Shoot"
)

// ActionStatus 定义了行动日志的状态
type ActionStatus string

const (
	// StatusLogged 表示行动已记录，等待夜晚结算
	StatusLogged ActionStatus = "Logged"
	// StatusResolved 表示行动已被夜晚结算处理
	StatusResolved ActionStatus = "Resolved"
)

// NightAction 是夜间行动的只追加日志，每次提交一行，创建后不再修改
// （夜晚结算只翻转Status）。同一行动者同一晚的唯一性由玩家的
// MainUsed标志保证，而不是由日志本身保证。
type NightAction struct {
	gorm.Model

	// ActionID 形如 "ACT_KILL_<时间戳>_<后缀>"
	ActionID string `gorm:"uniqueIndex;not null" json:"actionId"`

	// Day 是行动发生的游戏天数
	Day int `gorm:"index" json:"day"`

	ActorID  string       `gorm:"index" json:"actorId"`
	Type     ActionType   `json:"type"`
	TargetID string       `json:"targetId"`
	Result   string       `json:"result,omitempty"`
	Status   ActionStatus `json:"status"`
}

// NightVote 是夜间处决投票的只追加日志。
// 每人每晚一票由NightVoteUsed标志保证，票面权重在投票时落袋。
type NightVote struct {
	gorm.Model

	VoteID      string `gorm:"uniqueIndex;not null" json:"voteId"`
	Day         int    `gorm:"index" json:"day"`
	VoterID     string `gorm:"index" json:"voterId"`
	TargetID    string `json:"targetId"`
	VotingPower int    `json:"votingPower"`
}
