package accusation

import (
	"errors"
	"time"

	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/internal/trial"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// asGameError 保留已分类的错误，把裸的存储层错误包装为依赖失败
func asGameError(err error, op string) error {
	if err == nil {
		return nil
	}
	var ge *gameerror.Error
	if errors.As(err, &ge) {
		return err
	}
	return gameerror.Wrap(gameerror.KindDependency, err, "%s失败", op)
}

// Submit 提交一次新指控，初始状态总是Pending。
// 对同一被告的并发重复指控不做拦截，由主持人在审批时裁量。
func Submit(accuserID, accusedID, evidenceRef string) (*Accusation, error) {
	day, err := gamestate.CurrentDay()
	if err != nil {
		return nil, err
	}

	for _, id := range []string{accuserID, accusedID} {
		exists, err := player.Exists(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, gameerror.New(gameerror.KindNotFound, "找不到玩家: %s", id)
		}
	}

	acc := Accusation{
		AccusationID: gameid.New("ACC"),
		Day:          day,
		AccuserID:    accuserID,
		AccusedID:    accusedID,
		EvidenceRef:  evidenceRef,
		Status:       StatusPending,
	}
	if err := database.DB.Create(&acc).Error; err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "写入指控记录失败")
	}
	return &acc, nil
}

// lockAccusation 在事务内按行锁读取指控
func lockAccusation(tx *gorm.DB, accusationID string) (*Accusation, error) {
	var acc Accusation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("accusation_id = ?", accusationID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "找不到指控: %s", accusationID)
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Approve 批准一次指控并开庭。
// 状态流转、开庭、记录被告和阶段切换在同一个事务中完成；
// 已有审判在进行时整个批准回滚并返回Conflict。
func Approve(accusationID string) (*trial.Trial, error) {
	var opened *trial.Trial
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		acc, err := lockAccusation(tx, accusationID)
		if err != nil {
			return err
		}
		if acc.Status != StatusPending {
			return gameerror.New(gameerror.KindConflict, "指控 %s 已经处理过，当前状态: %s", accusationID, acc.Status)
		}

		// 1. 开庭，同一时间最多一场审判
		t, err := trial.Open(tx, acc.AccusationID, acc.AccusedID, acc.Day)
		if err != nil {
			return err
		}
		opened = t

		// 2. 指控流转为Approved
		now := time.Now()
		if err := tx.Model(acc).Updates(map[string]interface{}{
			"status":        StatusApproved,
			"approval_time": &now,
			"trial_started": true,
		}).Error; err != nil {
			return err
		}

		// 3. 记录被告并把阶段切到审判
		return gamestate.AppendState(tx, func(s *gamestate.Snapshot) {
			s.LastAccusedPlayerID = acc.AccusedID
			s.Phase = gamestate.PhaseTrial
		})
	})
	if err != nil {
		return nil, asGameError(err, "批准指控")
	}

	trial.RefreshActiveCache()
	gamestate.RefreshCache()
	return opened, nil
}

// Reject 驳回一次指控，不产生审判
func Reject(accusationID string) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		acc, err := lockAccusation(tx, accusationID)
		if err != nil {
			return err
		}
		if acc.Status != StatusPending {
			return gameerror.New(gameerror.KindConflict, "指控 %s 已经处理过，当前状态: %s", accusationID, acc.Status)
		}

		now := time.Now()
		return tx.Model(acc).Updates(map[string]interface{}{
			"status":        StatusRejected,
			"approval_time": &now,
		}).Error
	})
	return asGameError(err, "驳回指控")
}

// GetByID 按业务ID读取指控
func GetByID(accusationID string) (*Accusation, error) {
	var acc Accusation
	err := database.DB.Where("accusation_id = ?", accusationID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "找不到指控: %s", accusationID)
	}
	if err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取指控 %s 失败", accusationID)
	}
	return &acc, nil
}

// ListPending 返回所有等待审批的指控，按提交顺序排列
func ListPending() ([]Accusation, error) {
	var pending []Accusation
	if err := database.DB.Where("status = ?", StatusPending).
		Order("id asc").Find(&pending).Error; err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取待审批指控失败")
	}
	return pending, nil
}
