package trial

import (
	"errors"
	"fmt"
	"time"

	"github.com/nightcouncil/mafia-game-backend/internal/archive"
	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/config"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"github.com/nightcouncil/mafia-game-backend/pkg/lifecycle"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResolveTrial 对一场审判做终审结案：
// 比较两侧票数，多数获胜，平票按无罪处理；
// 有罪则被告死亡。判决落档，阶段切回白天，全部在一个事务中完成。
func ResolveTrial(trialID string) (*Trial, error) {
	var resolved Trial
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
			return gameerror.New(gameerror.KindConflict, "审判 %s 已经结案", trialID)
		}

		verdict := VerdictNotGuilty
		if t.GuiltyTally > t.NotGuiltyTally {
			verdict = VerdictGuilty
		}

		// 1. 有罪则被告出局
		outcome := archive.OutcomeNotGuilty
		details := fmt.Sprintf("玩家 %s 被判无罪", t.DefendantID)
		if verdict == VerdictGuilty {
			result := tx.Model(&player.Player{}).
				Where("player_id = ?", t.DefendantID).
				Update("status", player.StatusDead)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gameerror.New(gameerror.KindNotFound, "结案时找不到被告: %s", t.DefendantID)
			}
			outcome = archive.OutcomeGuilty
			details = fmt.Sprintf("玩家 %s 被判有罪并处决", t.DefendantID)
		}

		// 2. 判决落档
		if err := archive.Append(tx, &archive.Entry{
			Day:               t.Day,
			ActionType:        archive.EventTrialVerdict,
			Details:           details,
			PlayerIDsInvolved: t.DefendantID,
			Outcome:           outcome,
		}); err != nil {
			return err
		}

		// 3. 关闭审判并撤销未投票成员的陪审资格
		if err := tx.Model(&t).Updates(map[string]interface{}{
			"status":  StatusResolved,
			"verdict": verdict,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&player.Player{}).
			Where("is_jury_member = ?", true).
			Update("is_jury_member", false).Error; err != nil {
			return err
		}

		// 4. 审判结束，阶段切回白天
		if err := gamestate.AppendState(tx, func(s *gamestate.Snapshot) {
			s.Phase = gamestate.PhaseDay
		}); err != nil {
			return err
		}

		t.Status = StatusResolved
		t.Verdict = verdict
		resolved = t
		return nil
	})
	if err != nil {
		var ge *gameerror.Error
		if errors.As(err, &ge) {
			return nil, err
		}
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "审判结案失败")
	}

	RefreshActiveCache()
	gamestate.RefreshCache()
	fmt.Printf("审判 %s 已结案，判决: %s。\n", resolved.TrialID, resolved.Verdict)
	return &resolved, nil
}

// ResolveOverdue 结案所有投票窗口已过期的审判，返回结案数量
func ResolveOverdue(now time.Time) (int, error) {
	var overdue []Trial
	err := database.DB.Where("status = ? AND voting_deadline < ?", StatusActive, now).
		Order("id asc").Find(&overdue).Error
	if err != nil {
		return 0, gameerror.Wrap(gameerror.KindDependency, err, "查询过期审判失败")
	}

	count := 0
	for _, t := range overdue {
		if _, err := ResolveTrial(t.TrialID); err != nil {
			// 并发结案会吃到Conflict，跳过即可
			if gameerror.Is(err, gameerror.KindConflict) {
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

// StartDeadlinePoller 启动后台审判巡查。
// 投票截止时间只是数据，真正的结案由这个轮询触发。
func StartDeadlinePoller(manager *lifecycle.Manager) error {
	handle, err := manager.NewServiceHandle("trial-deadline-poller")
	if err != nil {
		return err
	}

	go func() {
		defer handle.Close()
		fmt.Println("审判巡查服务已启动。")

		for {
			if n, err := ResolveOverdue(time.Now()); err != nil {
				fmt.Printf("警告: 审判巡查出错: %v\n", err)
			} else if n > 0 {
				fmt.Printf("审判巡查: 本轮结案 %d 场过期审判。\n", n)
			}

			if err := handle.Sleep(config.Cfg.Game.TrialPollInterval()); err != nil {
				fmt.Println("审判巡查服务已停止。")
				return
			}
		}
	}()
	return nil
}
