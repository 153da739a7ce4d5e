package player

import (
	"strings"

	"gorm.io/gorm"
)

// Role 定义了玩家身份的枚举类型
type Role string

const (
	RoleVillager  Role = "Villager"
	RoleMafia     Role = "Mafia"
	RoleDoctor    Role = "Doctor"
	RoleDetective Role = "Detective"
	RoleSheriff   Role = "Sheriff"
	RoleJester    Role = "Jester"
)

// Status 定义了玩家存活状态的枚举类型
type Status string

const (
	StatusAlive Status = "Alive"
	StatusDead  Status = "Dead"
)

// Player 是玩家注册表的权威记录，每个玩家有且仅有一行。
// 一次性能力标志只允许 true→false 的单向消费，
// CurrentVotingPower 只增不减，状态仅在 Alive/Dead 之间翻转。
type Player struct {
	gorm.Model

	// PlayerID 是玩家的业务主键，例如 "P001"
	PlayerID string `gorm:"uniqueIndex;not null" json:"playerId"`

	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`

	// CurrentVotingPower 是陪审团计票时的票面权重，默认1
	CurrentVotingPower int `gorm:"default:1" json:"currentVotingPower"`

	// MainUsed 是每晚重置的主行动标志，限制每个角色每晚一次主行动
	MainUsed bool `json:"mainUsed"`

	// NightVoteUsed 限制每晚一次处决投票
	NightVoteUsed bool `json:"nightVoteUsed"`

	// SheriffShotUsed 是警长一次性开枪标志，整局游戏不重置
	SheriffShotUsed bool `json:"sheriffShotUsed"`

	// --- 任务解锁的一次性能力标志 ---

	MafiaCanConvert         bool `json:"mafiaCanConvert"`
	MafiaCanRevealSelf      bool `json:"mafiaCanRevealSelf"`
	DoctorCanRevive         bool `json:"doctorCanRevive"`
	VillagerCanChangeRole   bool `json:"villagerCanChangeRole"`
	VillagerCanIncreaseVote bool `json:"villagerCanIncreaseVote"`

	// InvestigationHistory 是侦探的调查记录，形如 "P003:YES,P007:NO"
	InvestigationHistory string `json:"investigationHistory"`

	// RevealedTeammates 是已向该玩家揭示的黑手党队友ID列表，逗号分隔
	RevealedTeammates string `json:"revealedTeammates"`

	MissionsCompleted int    `json:"missionsCompleted"`
	CurrentMissionID  string `json:"currentMissionId"`

	// IsJuryMember 标记玩家在当前审判中是否还持有投票资格
	IsJuryMember bool `json:"isJuryMember"`
}

// abilityColumns 将任务表中的能力名映射到Players表的列名。
// 能力名沿用原始数据中的写法，避免任务配置和玩家字段再次漂移。
var abilityColumns = map[string]string{
	"MafiaCanConvert":         "mafia_can_convert",
	"MafiaCanRevealSelf":      "mafia_can_reveal_self",
	"DoctorCanRevive":         "doctor_can_revive",
	"VillagerCanChangeRole":   "villager_can_change_role",
	"VillagerCanIncreaseVote": "villager_can_increase_vote",
}

// AbilityColumn 返回能力名对应的数据库列名，未知能力返回false
func AbilityColumn(ability string) (string, bool) {
	col, ok := abilityColumns[ability]
	return col, ok
}

// SplitList 拆分逗号分隔的ID列表字段
func SplitList(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// AppendList 向逗号分隔的列表字段追加一项
func AppendList(field, item string) string {
	if field == "" {
		return item
	}
	return field + "," + item
}
