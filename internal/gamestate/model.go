package gamestate

import (
	"gorm.io/gorm"
)

// Phase 定义了游戏阶段的枚举类型
type Phase string

const (
	// PhaseDay 表示白天讨论阶段，夜间行动不合法
	PhaseDay Phase = "Day"
	// PhaseNight 表示夜晚行动阶段
	PhaseNight Phase = "Night"
	// PhaseTrial 表示有审判正在进行的阶段
	PhaseTrial Phase = "Trial"
)

// GameState 是游戏全局状态的单例记录。
// 表是只追加的，最新一行（ID最大）为当前状态，这样保留了完整的阶段变迁历史。
type GameState struct {
	gorm.Model

	// CurrentDay 是当前游戏天数，由昼夜循环驱动器推进
	CurrentDay int `json:"currentDay"`

	// Phase 是当前阶段，夜间行动的合法性检查以它为准
	Phase Phase `json:"phase"`

	// LastAccusedPlayerID 记录最近一次被批准指控的被告
	LastAccusedPlayerID string `json:"lastAccusedPlayerId"`
}

// Snapshot 是缓存在Redis中的当前状态快照
type Snapshot struct {
	CurrentDay          int    `json:"currentDay"`
	Phase               Phase  `json:"phase"`
	LastAccusedPlayerID string `json:"lastAccusedPlayerId"`
}
