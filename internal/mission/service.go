package mission

import (
	"errors"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetByID 按业务ID读取任务配置
func GetByID(missionID string) (*Mission, error) {
	var m Mission
	err := database.DB.Where("mission_id = ?", missionID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "找不到任务: %s", missionID)
	}
	if err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取任务 %s 失败", missionID)
	}
	return &m, nil
}

// List 返回全部任务目录
func List() ([]Mission, error) {
	var missions []Mission
	if err := database.DB.Order("mission_id asc").Find(&missions).Error; err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取任务目录失败")
	}
	return missions, nil
}

// Assign 给玩家指派一个任务
func Assign(playerID, missionID string) error {
	if _, err := GetByID(missionID); err != nil {
		return err
	}
	return player.UpdateFields(playerID, map[string]interface{}{
		"current_mission_id": missionID,
	})
}

// PlayerMission 返回玩家当前指派的任务，未指派时返回NotFound
func PlayerMission(playerID string) (*Mission, error) {
	p, err := player.GetByID(playerID)
	if err != nil {
		return nil, err
	}
	if p.CurrentMissionID == "" {
		return nil, gameerror.New(gameerror.KindNotFound, "玩家 %s 当前没有指派任务", playerID)
	}
	return GetByID(p.CurrentMissionID)
}

// Complete 标记玩家完成任务：点亮任务解锁的能力标志、
// 完成计数+1并清空当前任务，整个更新在一个加行锁的事务中完成。
// 返回解锁的能力名。
func Complete(playerID, missionID string) (string, error) {
	m, err := GetByID(missionID)
	if err != nil {
		return "", err
	}

	column, known := player.AbilityColumn(m.AbilityUnlocked)
	if !known {
		return "", gameerror.New(gameerror.KindNotFound, "任务 %s 配置的能力 %s 不存在", missionID, m.AbilityUnlocked)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var p player.Player
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", playerID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gameerror.New(gameerror.KindNotFound, "找不到玩家: %s", playerID)
		}
		if err != nil {
			return err
		}

		return tx.Model(&p).Updates(map[string]interface{}{
			column:               true,
			"missions_completed": p.MissionsCompleted + 1,
			"current_mission_id": "",
		}).Error
	})
	if err != nil {
		var ge *gameerror.Error
		if errors.As(err, &ge) {
			return "", err
		}
		return "", gameerror.Wrap(gameerror.KindDependency, err, "完成任务 %s 失败", missionID)
	}
	return m.AbilityUnlocked, nil
}
