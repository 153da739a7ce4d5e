package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetByID 按业务ID读取单个玩家
func GetByID(playerID string) (*Player, error) {
	var p Player
	err := database.DB.Where("player_id = ?", playerID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "找不到玩家: %s", playerID)
	}
	if err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取玩家 %s 失败", playerID)
	}
	return &p, nil
}

// GetByName 按名字查找玩家（大小写不敏感），用于登录
func GetByName(name string) (*Player, error) {
	var p Player
	err := database.DB.Where("LOWER(name) = ?", strings.ToLower(name)).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "找不到名为 %s 的玩家", name)
	}
	if err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "按名字查找玩家失败")
	}
	return &p, nil
}

// Filter 是List的可选过滤条件
type Filter struct {
	Status Status
	Role   Role
}

// List 返回按PlayerID排序的玩家列表
func List(filter Filter) ([]Player, error) {
	query := database.DB.Order("player_id asc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var players []Player
	if err := query.Find(&players).Error; err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取玩家列表失败")
	}
	return players, nil
}

// Exists 快速判断玩家是否存在。优先查Redis缓存，缓存不可用时回落到SQLite。
func Exists(playerID string) (bool, error) {
	if database.CacheAvailable() {
		known, err := database.RDB.SIsMember(database.Ctx, KnownPlayersKey, playerID).Result()
		if err == nil {
			return known, nil
		}
		// 缓存查询失败时继续走SQLite，不把缓存故障暴露给调用方
	}

	var count int64
	if err := database.DB.Model(&Player{}).Where("player_id = ?", playerID).Count(&count).Error; err != nil {
		return false, gameerror.Wrap(gameerror.KindDependency, err, "检查玩家 %s 是否存在失败", playerID)
	}
	return count > 0, nil
}

// UpdateFields 以字段级补丁的方式更新单个玩家。
// 补丁在一个加行锁的事务中应用，保证同一晚上对同一玩家的
// 两类并发修改（能力消费和死亡改状态）不会互相覆盖。
func UpdateFields(playerID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return gameerror.New(gameerror.KindValidation, "没有需要更新的字段")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var p Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", playerID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gameerror.New(gameerror.KindNotFound, "找不到玩家: %s", playerID)
			}
			return err
		}
		return tx.Model(&p).Updates(fields).Error
	})
	if err != nil {
		var ge *gameerror.Error
		if errors.As(err, &ge) {
			return err
		}
		return gameerror.Wrap(gameerror.KindDependency, err, "更新玩家 %s 失败", playerID)
	}
	return nil
}

// ResetNightFlags 在新的一晚开始时清除所有玩家的每晚行动标志。
// SheriffShotUsed和一次性能力标志不在重置范围内。
func ResetNightFlags(tx *gorm.DB) error {
	err := tx.Model(&Player{}).Where("main_used = ? OR night_vote_used = ?", true, true).
		Updates(map[string]interface{}{"main_used": false, "night_vote_used": false}).Error
	if err != nil {
		return fmt.Errorf("重置每晚行动标志失败: %w", err)
	}
	return nil
}

// Create 注册一名新玩家，由主持人在开局时调用
func Create(p *Player) error {
	if p.PlayerID == "" || p.Name == "" {
		return gameerror.New(gameerror.KindValidation, "玩家ID和名字不能为空")
	}
	if p.Role == "" {
		p.Role = RoleVillager
	}
	if p.Status == "" {
		p.Status = StatusAlive
	}
	if p.CurrentVotingPower == 0 {
		p.CurrentVotingPower = 1
	}

	exists, err := Exists(p.PlayerID)
	if err != nil {
		return err
	}
	if exists {
		return gameerror.New(gameerror.KindConflict, "玩家 %s 已存在", p.PlayerID)
	}

	if err := database.DB.Create(p).Error; err != nil {
		return gameerror.Wrap(gameerror.KindDependency, err, "写入玩家 %s 失败", p.PlayerID)
	}
	AddToCache(p.PlayerID)
	return nil
}

// AddToCache 将新玩家ID加入Redis已知玩家集合
func AddToCache(playerID string) {
	if !database.CacheAvailable() {
		return
	}
	LockRepository()
	defer UnlockRepository()
	if err := database.RDB.SAdd(database.Ctx, KnownPlayersKey, playerID).Err(); err != nil {
		fmt.Printf("警告: 无法将玩家 %s 加入Redis缓存: %v\n", playerID, err)
	}
}
