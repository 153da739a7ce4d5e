package trial

import (
	"time"

	"gorm.io/gorm"
)

// Status 定义了审判的状态枚举
type Status string

const (
	// StatusActive 表示审判正在投票中，全局同一时间最多一场
	StatusActive Status = "Active"
	// StatusResolved 表示审判已结案
	StatusResolved Status = "Resolved"
)

// Verdict 定义了审判的判决结果
type Verdict string

const (
	VerdictGuilty    Verdict = "Guilty"
	VerdictNotGuilty Verdict = "NotGuilty"
)

// 陪审团选票的方向常量，与历史数据中的写法保持一致
const (
	VoteGuilty    = "GUILTY"
	VoteNotGuilty = "NOTGUILTY"
)

// Trial 是一场审判的权威记录。
// 票数累计直接落在本行上，选票明细另存于Trial_Votes。
type Trial struct {
	gorm.Model

	// TrialID 形如 "TRIAL_<时间戳>_<后缀>"
	TrialID string `gorm:"uniqueIndex;not null" json:"trialId"`

	// AccusationID 是触发本审判的指控，一场指控最多产生一场审判
	AccusationID string `gorm:"uniqueIndex;not null" json:"accusationId"`

	DefendantID string `gorm:"index" json:"defendantId"`
	Day         int    `json:"day"`

	Status  Status  `gorm:"index" json:"status"`
	Verdict Verdict `json:"verdict,omitempty"`

	GuiltyTally    int `json:"guiltyTally"`
	NotGuiltyTally int `json:"notGuiltyTally"`

	// VotingDeadline 到期后由后台巡查负责结案
	VotingDeadline time.Time `json:"votingDeadline"`
}

// Vote 是一张陪审团选票的只追加记录。
// 每人一票由玩家的IsJuryMember标志保证，投票即清除资格。
type Vote struct {
	gorm.Model

	VoteID      string `gorm:"uniqueIndex;not null" json:"voteId"`
	TrialID     string `gorm:"index" json:"trialId"`
	VoterID     string `gorm:"index" json:"voterId"`
	VoteType    string `json:"voteType"`
	VotingPower int    `json:"votingPower"`
}
