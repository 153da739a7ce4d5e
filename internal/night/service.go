package night

import (
	"errors"
	"strings"

	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
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

// lockPlayer 在事务内按行锁读取玩家，所有读-改-写都从这里开始
func lockPlayer(tx *gorm.DB, playerID string) (*player.Player, error) {
	var p player.Player
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("player_id = ?", playerID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "找不到玩家: %s", playerID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// requireRole 校验行动者的身份与行动类型匹配
func requireRole(p *player.Player, role player.Role) error {
	if p.Role != role {
		return gameerror.New(gameerror.KindForbidden, "玩家 %s 的身份不是%s，无法执行该行动", p.PlayerID, role)
	}
	return nil
}

// requireMainAvailable 校验每晚一次的主行动标志
func requireMainAvailable(p *player.Player) error {
	if p.MainUsed {
		return gameerror.New(gameerror.KindForbidden, "你今晚已经使用过行动了")
	}
	return nil
}

// requireTargetExists 只确认目标在注册表中，不加锁
func requireTargetExists(tx *gorm.DB, targetID string) error {
	var count int64
	if err := tx.Model(&player.Player{}).Where("player_id = ?", targetID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gameerror.New(gameerror.KindNotFound, "找不到目标玩家: %s", targetID)
	}
	return nil
}

// logAction 追加一条夜间行动日志
func logAction(tx *gorm.DB, prefix string, day int, actorID string, actionType ActionType, targetID, result string) error {
	action := NightAction{
		ActionID: gameid.New(prefix),
		Day:      day,
		ActorID:  actorID,
		Type:     actionType,
		TargetID: targetID,
		Result:   result,
		Status:   StatusLogged,
	}
	return tx.Create(&action).Error
}

// SubmitKill 记录黑手党的击杀目标。
// 死亡不在这里结算：是否真的死亡要等夜晚结算把击杀和医生保护对账之后才知道。
func SubmitKill(actorID, targetID string) error {
	if err := gamestate.RequireNight(); err != nil {
		return err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleMafia); err != nil {
			return err
		}
		if err := requireMainAvailable(actor); err != nil {
			return err
		}
		if err := requireTargetExists(tx, targetID); err != nil {
			return err
		}

		if err := logAction(tx, "ACT_KILL", day, actorID, ActionKill, targetID, ""); err != nil {
			return err
		}
		return tx.Model(actor).Update("main_used", true).Error
	})
	return asGameError(err, "记录击杀行动")
}

// SubmitProtect 记录医生的保护目标。保护与击杀的净效果由夜晚结算计算。
func SubmitProtect(actorID, targetID string) error {
	if err := gamestate.RequireNight(); err != nil {
		return err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleDoctor); err != nil {
			return err
		}
		if err := requireMainAvailable(actor); err != nil {
			return err
		}
		if err := requireTargetExists(tx, targetID); err != nil {
			return err
		}

		if err := logAction(tx, "ACT_PROTECT", day, actorID, ActionProtect, targetID, ""); err != nil {
			return err
		}
		return tx.Model(actor).Update("main_used", true).Error
	})
	return asGameError(err, "记录保护行动")
}

// Investigate 是唯一同步返回结果的夜间行动：
// 查询目标身份，返回 "YES"/"NO"，并把结果追加进侦探的调查记录。
func Investigate(actorID, targetID string) (string, error) {
	if err := gamestate.RequireNight(); err != nil {
		return "", err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return "", err
	}

	var result string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleDetective); err != nil {
			return err
		}
		if err := requireMainAvailable(actor); err != nil {
			return err
		}

		var target player.Player
		if err := tx.Where("player_id = ?", targetID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gameerror.New(gameerror.KindNotFound, "找不到目标玩家: %s", targetID)
			}
			return err
		}

		// 身份比较大小写不敏感，历史数据中出现过"mafia"的写法
		result = "NO"
		if strings.EqualFold(string(target.Role), string(player.RoleMafia)) {
			result = "YES"
		}

		if err := logAction(tx, "ACT_CHECK", day, actorID, ActionInvestigate, targetID, result); err != nil {
			return err
		}

		entry := targetID + ":" + result
		return tx.Model(actor).Updates(map[string]interface{}{
			"main_used":             true,
			"investigation_history": player.AppendList(actor.InvestigationHistory, entry),
		}).Error
	})
	if err != nil {
		return "", asGameError(err, "记录调查行动")
	}
	return result, nil
}

// Convert 消耗MafiaCanConvert能力，把一名随机存活的普通村民转化为黑手党。
// 候选池为空时返回NotFound且不产生任何修改。
func Convert(actorID string) (string, error) {
	if err := gamestate.RequireNight(); err != nil {
		return "", err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return "", err
	}

	var convertedID string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleMafia); err != nil {
			return err
		}
		if !actor.MafiaCanConvert {
			return gameerror.New(gameerror.KindForbidden, "你没有转化村民的能力")
		}

		var pool []player.Player
		if err := tx.Where("status = ? AND role = ?", player.StatusAlive, player.RoleVillager).
			Order("player_id asc").Find(&pool).Error; err != nil {
			return err
		}
		if len(pool) == 0 {
			return gameerror.New(gameerror.KindNotFound, "没有可转化的村民")
		}

		target := pool[pickIndex(len(pool))]
		convertedID = target.PlayerID

		if err := tx.Model(&target).Update("role", player.RoleMafia).Error; err != nil {
			return err
		}
		if err := tx.Model(actor).Update("mafia_can_convert", false).Error; err != nil {
			return err
		}
		return logAction(tx, "ACT_CONVERT", day, actorID, ActionConvert, convertedID, "")
	})
	if err != nil {
		return "", asGameError(err, "转化村民")
	}
	return convertedID, nil
}

// Reveal 消耗MafiaCanRevealSelf能力，随机揭示一名尚未揭示过的存活黑手党队友。
func Reveal(actorID string) (string, error) {
	if err := gamestate.RequireNight(); err != nil {
		return "", err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return "", err
	}

	var revealedID string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleMafia); err != nil {
			return err
		}
		if !actor.MafiaCanRevealSelf {
			return gameerror.New(gameerror.KindForbidden, "你没有揭示队友的能力")
		}

		already := make(map[string]bool)
		for _, id := range player.SplitList(actor.RevealedTeammates) {
			already[id] = true
		}

		var mafias []player.Player
		if err := tx.Where("status = ? AND role = ?", player.StatusAlive, player.RoleMafia).
			Order("player_id asc").Find(&mafias).Error; err != nil {
			return err
		}

		pool := make([]player.Player, 0, len(mafias))
		for _, m := range mafias {
			if m.PlayerID != actorID && !already[m.PlayerID] {
				pool = append(pool, m)
			}
		}
		if len(pool) == 0 {
			return gameerror.New(gameerror.KindNotFound, "没有新的队友可以揭示")
		}

		teammate := pool[pickIndex(len(pool))]
		revealedID = teammate.PlayerID

		if err := tx.Model(actor).Updates(map[string]interface{}{
			"revealed_teammates":    player.AppendList(actor.RevealedTeammates, revealedID),
			"mafia_can_reveal_self": false,
		}).Error; err != nil {
			return err
		}
		return logAction(tx, "ACT_REVEAL", day, actorID, ActionReveal, revealedID, "")
	})
	if err != nil {
		return "", asGameError(err, "揭示队友")
	}
	return revealedID, nil
}

// Revive 消耗DoctorCanRevive能力，随机复活一名死亡玩家。
func Revive(actorID string) (string, error) {
	if err := gamestate.RequireNight(); err != nil {
		return "", err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return "", err
	}

	var revivedID string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleDoctor); err != nil {
			return err
		}
		if !actor.DoctorCanRevive {
			return gameerror.New(gameerror.KindForbidden, "你没有复活玩家的能力")
		}

		var pool []player.Player
		if err := tx.Where("status = ?", player.StatusDead).
			Order("player_id asc").Find(&pool).Error; err != nil {
			return err
		}
		if len(pool) == 0 {
			return gameerror.New(gameerror.KindNotFound, "没有死亡的玩家可以复活")
		}

		target := pool[pickIndex(len(pool))]
		revivedID = target.PlayerID

		if err := tx.Model(&target).Update("status", player.StatusAlive).Error; err != nil {
			return err
		}
		if err := tx.Model(actor).Update("doctor_can_revive", false).Error; err != nil {
			return err
		}
		return logAction(tx, "ACT_REVIVE", day, actorID, ActionRevive, revivedID, "")
	})
	if err != nil {
		return "", asGameError(err, "复活玩家")
	}
	return revivedID, nil
}

// allowedNewRoles 是换身份能力可以选择的目标身份
var allowedNewRoles = map[player.Role]bool{
	player.RoleMafia:     true,
	player.RoleDoctor:    true,
	player.RoleDetective: true,
}

// ChangeRole 消耗VillagerCanChangeRole能力，把村民自己换成指定的新身份。
func ChangeRole(actorID string, newRole player.Role) error {
	if !allowedNewRoles[newRole] {
		return gameerror.New(gameerror.KindValidation, "无效的新身份: %s", newRole)
	}
	if err := gamestate.RequireNight(); err != nil {
		return err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleVillager); err != nil {
			return err
		}
		if !actor.VillagerCanChangeRole {
			return gameerror.New(gameerror.KindForbidden, "你没有更换身份的能力")
		}

		if err := tx.Model(actor).Updates(map[string]interface{}{
			"role":                     newRole,
			"villager_can_change_role": false,
		}).Error; err != nil {
			return err
		}
		return logAction(tx, "ACT_CHANGEROLE", day, actorID, ActionChangeRole, actorID, string(newRole))
	})
	return asGameError(err, "更换身份")
}

// IncreaseVotePower 消耗VillagerCanIncreaseVote能力，票面权重+1。
// 权重只增不减。
func IncreaseVotePower(actorID string) (int, error) {
	if err := gamestate.RequireNight(); err != nil {
		return 0, err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return 0, err
	}

	var newPower int
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleVillager); err != nil {
			return err
		}
		if !actor.VillagerCanIncreaseVote {
			return gameerror.New(gameerror.KindForbidden, "你没有提升票权的能力")
		}

		newPower = actor.CurrentVotingPower + 1
		if err := tx.Model(actor).Updates(map[string]interface{}{
			"current_voting_power":       newPower,
			"villager_can_increase_vote": false,
		}).Error; err != nil {
			return err
		}
		return logAction(tx, "ACT_VOTEPOWER", day, actorID, ActionIncreaseVote, actorID, "")
	})
	if err != nil {
		return 0, asGameError(err, "提升票权")
	}
	return newPower, nil
}

// Shoot 是警长的一次性致命行动：同时消耗一次性开枪标志和当晚主行动标志。
// 警长的子弹无视医生保护，夜晚结算据此处理。
func Shoot(actorID, targetID string) error {
	if err := gamestate.RequireNight(); err != nil {
		return err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		actor, err := lockPlayer(tx, actorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, player.RoleSheriff); err != nil {
			return err
		}
		if actor.SheriffShotUsed {
			return gameerror.New(gameerror.KindForbidden, "警长已经用掉了唯一的一枪")
		}
		if err := requireMainAvailable(actor); err != nil {
			return err
		}
		if err := requireTargetExists(tx, targetID); err != nil {
			return err
		}

		if err := logAction(tx, "ACT_SHOOT", day, actorID, ActionShoot, targetID, ""); err != nil {
			return err
		}
		return tx.Model(actor).Updates(map[string]interface{}{
			"sheriff_shot_used": true,
			"main_used":         true,
		}).Error
	})
	return asGameError(err, "记录警长开枪")
}

// SubmitNightVote 记录一张夜间处决投票，权重取投票人当前的票面权重。
func SubmitNightVote(voterID, targetID string) error {
	if err := gamestate.RequireNight(); err != nil {
		return err
	}
	day, err := gamestate.CurrentDay()
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		voter, err := lockPlayer(tx, voterID)
		if err != nil {
			return err
		}
		if voter.NightVoteUsed {
			return gameerror.New(gameerror.KindForbidden, "你今晚已经投过处决票了")
		}
		if err := requireTargetExists(tx, targetID); err != nil {
			return err
		}

		vote := NightVote{
			VoteID:      gameid.New("NVOTE"),
			Day:         day,
			VoterID:     voterID,
			TargetID:    targetID,
			VotingPower: voter.CurrentVotingPower,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		return tx.Model(voter).Update("night_vote_used", true).Error
	})
	return asGameError(err, "记录夜间处决投票")
}

// InvestigationEntry 是一条解析后的调查记录
type InvestigationEntry struct {
	TargetID string `json:"targetId"`
	Result   string `json:"result"`
}

// InvestigationHistory 返回侦探的全部调查记录
func InvestigationHistory(detectiveID string) ([]InvestigationEntry, error) {
	p, err := player.GetByID(detectiveID)
	if err != nil {
		return nil, err
	}

	raw := player.SplitList(p.InvestigationHistory)
	entries := make([]InvestigationEntry, 0, len(raw))
	for _, item := range raw {
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			continue
		}
		entries = append(entries, InvestigationEntry{TargetID: parts[0], Result: parts[1]})
	}
	return entries, nil
}
