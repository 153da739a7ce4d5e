package trial

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/config"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveTrialKey 是Redis中当前审判快照的键，值为Trial的JSON
const ActiveTrialKey = "trial:active"

// repoMutex 保护对ActiveTrialKey缓存的并发更新
var repoMutex sync.RWMutex

// Open 在调用方的事务内开启一场新审判。
// 全局同一时间最多一场Active审判，已有审判时返回Conflict。
// 开庭的同时把所有存活且非被告的玩家列为陪审团成员。
func Open(tx *gorm.DB, accusationID, defendantID string, day int) (*Trial, error) {
	var count int64
	if err := tx.Model(&Trial{}).Where("status = ?", StatusActive).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, gameerror.New(gameerror.KindConflict, "已有一场审判正在进行，无法开启新的审判")
	}

	t := Trial{
		TrialID:        gameid.New("TRIAL"),
		AccusationID:   accusationID,
		DefendantID:    defendantID,
		Day:            day,
		Status:         StatusActive,
		VotingDeadline: time.Now().Add(config.Cfg.Game.TrialVotingWindow()),
	}
	if err := tx.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("创建审判记录失败: %w", err)
	}

	// 组建陪审团: 所有存活玩家（被告除外）获得一票资格
	if err := tx.Model(&player.Player{}).
		Where("status = ? AND player_id <> ?", player.StatusAlive, defendantID).
		Update("is_jury_member", true).Error; err != nil {
		return nil, fmt.Errorf("组建陪审团失败: %w", err)
	}

	return &t, nil
}

// GetActiveTrial 返回当前进行中的审判。优先读Redis快照，缓存不可用时回落到SQLite。
// 没有进行中的审判时返回NotFound。
func GetActiveTrial() (*Trial, error) {
	if database.CacheAvailable() {
		repoMutex.RLock()
		raw, err := database.RDB.Get(database.Ctx, ActiveTrialKey).Result()
		repoMutex.RUnlock()
		if err == nil {
			var t Trial
			if json.Unmarshal([]byte(raw), &t) == nil {
				return &t, nil
			}
		}
	}

	return activeFromDB(database.DB)
}

func activeFromDB(tx *gorm.DB) (*Trial, error) {
	var t Trial
	// 历史上出现过多场Active审判并存的数据，这里固定取最早的一场
	err := tx.Where("status = ?", StatusActive).Order("id asc").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "当前没有进行中的审判")
	}
	if err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取进行中的审判失败")
	}
	return &t, nil
}

// GetByID 按业务ID读取审判
func GetByID(trialID string) (*Trial, error) {
	var t Trial
	err := database.DB.Where("trial_id = ?", trialID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "找不到审判: %s", trialID)
	}
	if err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取审判 %s 失败", trialID)
	}
	return &t, nil
}

// CastVote 投下一张陪审团选票。
// 资格检查、清除资格、票数累计和选票落档在同一个加行锁的事务中完成，
// 保证并发投票既不会重复计票也不会丢票。
func CastVote(voterID, trialID, voteType string) (*Trial, error) {
	if voteType != VoteGuilty && voteType != VoteNotGuilty {
		return nil, gameerror.New(gameerror.KindValidation, "无效的投票方向: %s，只接受GUILTY或NOTGUILTY", voteType)
	}

	var updated Trial
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var t Trial
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("trial_id = ?", trialID).First(&t).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gameerror.New(gameerror.KindNotFound, "找不到审判: %s", trialID)
		}
		if err != nil {
			return err
		}
		if t.Status != StatusActive {
			return gameerror.New(gameerror.KindConflict, "审判 %s 已结案，无法再投票", trialID)
		}

		var voter player.Player
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", voterID).First(&voter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gameerror.New(gameerror.KindNotFound, "找不到玩家: %s", voterID)
		}
		if err != nil {
			return err
		}
		if !voter.IsJuryMember {
			return gameerror.New(gameerror.KindForbidden, "玩家 %s 不是陪审团成员或已经投过票", voterID)
		}

		ballot := Vote{
			VoteID:      gameid.New("VOTE"),
			TrialID:     trialID,
			VoterID:     voterID,
			VoteType:    voteType,
			VotingPower: voter.CurrentVotingPower,
		}
		if err := tx.Create(&ballot).Error; err != nil {
			return err
		}

		if voteType == VoteGuilty {
			t.GuiltyTally += voter.CurrentVotingPower
		} else {
			t.NotGuiltyTally += voter.CurrentVotingPower
		}
		if err := tx.Model(&t).Updates(map[string]interface{}{
			"guilty_tally":     t.GuiltyTally,
			"not_guilty_tally": t.NotGuiltyTally,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&voter).Update("is_jury_member", false).Error; err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		var ge *gameerror.Error
		if errors.As(err, &ge) {
			return nil, err
		}
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "记录陪审团选票失败")
	}

	RefreshActiveCache()
	return &updated, nil
}

// ListVotesByVoter 返回某玩家投出的全部选票
func ListVotesByVoter(voterID string) ([]Vote, error) {
	var votes []Vote
	if err := database.DB.Where("voter_id = ?", voterID).Order("id asc").Find(&votes).Error; err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取玩家 %s 的选票失败", voterID)
	}
	return votes, nil
}

// ListVotesByTrial 返回某场审判的全部选票，用于核票
func ListVotesByTrial(trialID string) ([]Vote, error) {
	var votes []Vote
	if err := database.DB.Where("trial_id = ?", trialID).Order("id asc").Find(&votes).Error; err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取审判 %s 的选票失败", trialID)
	}
	return votes, nil
}

// RefreshActiveCache 将SQLite中进行中的审判写入Redis快照，没有时删除键
func RefreshActiveCache() {
	if !database.CacheAvailable() {
		return
	}

	repoMutex.Lock()
	defer repoMutex.Unlock()

	t, err := activeFromDB(database.DB)
	if err != nil {
		if gameerror.Is(err, gameerror.KindNotFound) {
			if err := database.RDB.Del(database.Ctx, ActiveTrialKey).Err(); err != nil {
				fmt.Printf("警告: 清除审判缓存失败: %v\n", err)
			}
		}
		return
	}

	raw, _ := json.Marshal(t)
	if err := database.RDB.Set(database.Ctx, ActiveTrialKey, raw, 0).Err(); err != nil {
		fmt.Printf("警告: 刷新审判缓存失败: %v\n", err)
	}
}
