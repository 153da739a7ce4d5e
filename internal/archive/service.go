package archive

import (
	"errors"
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/night"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Append 在调用方的事务内追加一条存档记录
func Append(tx *gorm.DB, entry *Entry) error {
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("写入存档记录失败: %w", err)
	}
	return nil
}

// NightOutcome 是一次夜晚结算的汇总结果
type NightOutcome struct {
	Day    int      `json:"day"`
	Deaths []string `json:"deaths"`
	Saves  []string `json:"saves"`
}

// ResolveNight 对指定天数的夜间行动做批量结算：
// 把击杀目标和医生保护对账，警长的子弹无视保护，
// 死亡写回玩家状态，结果落入存档，处理过的行动翻转为Resolved。
// 整个结算在一个事务中完成，重复结算同一晚是空操作。
func ResolveNight(day int) (*NightOutcome, error) {
	outcome := &NightOutcome{Day: day, Deaths: []string{}, Saves: []string{}}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var actions []night.NightAction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("day = ? AND status = ?", day, night.StatusLogged).
			Order("id asc").Find(&actions).Error; err != nil {
			return err
		}

		// 1. 分拣行动: 击杀目标、保护目标、警长枪击目标
		protected := make(map[string]bool)
		var kills []night.NightAction
		var shots []night.NightAction
		for _, a := range actions {
			switch a.Type {
			case night.ActionProtect:
				protected[a.TargetID] = true
			case night.ActionKill:
				kills = append(kills, a)
			case night.ActionShoot:
				shots = append(shots, a)
			}
		}

		// 2. 结算黑手党击杀，被保护者获救
		for _, k := range kills {
			if protected[k.TargetID] {
				outcome.Saves = append(outcome.Saves, k.TargetID)
				if err := Append(tx, &Entry{
					Day:               day,
					ActionType:        EventNightKill,
					Details:           fmt.Sprintf("玩家 %s 昨晚遭到袭击，但被医生救下", k.TargetID),
					PlayerIDsInvolved: k.ActorID + "," + k.TargetID,
					Outcome:           OutcomeSaved,
				}); err != nil {
					return err
				}
				continue
			}

			if err := markDead(tx, k.TargetID); err != nil {
				return err
			}
			outcome.Deaths = append(outcome.Deaths, k.TargetID)
			if err := Append(tx, &Entry{
				Day:               day,
				ActionType:        EventNightKill,
				Details:           fmt.Sprintf("玩家 %s 昨晚遇害", k.TargetID),
				PlayerIDsInvolved: k.ActorID + "," + k.TargetID,
				Outcome:           OutcomeDied,
			}); err != nil {
				return err
			}
		}

		// 3. 结算警长枪击，医生的保护挡不住子弹
		for _, s := range shots {
			if err := markDead(tx, s.TargetID); err != nil {
				return err
			}
			outcome.Deaths = append(outcome.Deaths, s.TargetID)
			if err := Append(tx, &Entry{
				Day:               day,
				ActionType:        EventSheriffShot,
				Details:           fmt.Sprintf("警长开枪击毙了玩家 %s", s.TargetID),
				PlayerIDsInvolved: s.ActorID + "," + s.TargetID,
				Outcome:           OutcomeDied,
			}); err != nil {
				return err
			}
		}

		// 4. 翻转已处理行动的状态，保证结算幂等
		if len(actions) > 0 {
			if err := tx.Model(&night.NightAction{}).
				Where("day = ? AND status = ?", day, night.StatusLogged).
				Update("status", night.StatusResolved).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var ge *gameerror.Error
		if errors.As(err, &ge) {
			return nil, err
		}
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "夜晚结算失败")
	}
	return outcome, nil
}

// markDead 把目标玩家置为死亡。目标可能在同一晚被多次命中，重复置死是安全的。
func markDead(tx *gorm.DB, playerID string) error {
	result := tx.Model(&player.Player{}).
		Where("player_id = ?", playerID).
		Update("status", player.StatusDead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gameerror.New(gameerror.KindNotFound, "结算时找不到玩家: %s", playerID)
	}
	return nil
}

// Recap 返回指定天数的事件简报
func Recap(day int) ([]Entry, error) {
	var entries []Entry
	if err := database.DB.Where("day = ?", day).Order("id asc").Find(&entries).Error; err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取第%d天的存档失败", day)
	}
	return entries, nil
}
