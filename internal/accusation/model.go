package accusation

import (
	"time"

	"gorm.io/gorm"
)

// Status 定义了指控的状态枚举。
// 状态只能从Pending走向Approved或Rejected，不可逆转。
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Accusation 是一次指控的权威记录
type Accusation struct {
	gorm.Model

	// AccusationID 形如 "ACC_<时间戳>_<后缀>"
	AccusationID string `gorm:"uniqueIndex;not null" json:"accusationId"`

	Day       int    `json:"day"`
	AccuserID string `gorm:"index" json:"accuserId"`
	AccusedID string `gorm:"index" json:"accusedId"`

	// EvidenceRef 是指控方提交的证据说明或外部链接
	EvidenceRef string `json:"evidenceRef"`

	Status Status `gorm:"index" json:"status"`

	// ApprovalTime 在批准或驳回时写入
	ApprovalTime *time.Time `json:"approvalTime,omitempty"`

	// TrialStarted 在批准并成功开庭后置真
	TrialStarted bool `json:"trialStarted"`
}
