package gamestate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"gorm.io/gorm"
)

// StateKey 是Redis中当前游戏状态快照的键，值为Snapshot的JSON
const StateKey = "game:state"

// repoMutex 保护对StateKey缓存的并发更新
var repoMutex sync.RWMutex

// Current 返回当前游戏状态。优先读Redis快照，缓存不可用时回落到SQLite最新行。
func Current() (*Snapshot, error) {
	if database.CacheAvailable() {
		repoMutex.RLock()
		raw, err := database.RDB.Get(database.Ctx, StateKey).Result()
		repoMutex.RUnlock()
		if err == nil {
			var snap Snapshot
			if json.Unmarshal([]byte(raw), &snap) == nil {
				return &snap, nil
			}
		}
	}

	return currentFromDB(database.DB)
}

func currentFromDB(tx *gorm.DB) (*Snapshot, error) {
	var state GameState
	err := tx.Order("id desc").First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gameerror.New(gameerror.KindNotFound, "游戏状态尚未初始化")
	}
	if err != nil {
		return nil, gameerror.Wrap(gameerror.KindDependency, err, "读取游戏状态失败")
	}
	return &Snapshot{
		CurrentDay:          state.CurrentDay,
		Phase:               state.Phase,
		LastAccusedPlayerID: state.LastAccusedPlayerID,
	}, nil
}

// CurrentDay 返回当前游戏天数
func CurrentDay() (int, error) {
	snap, err := Current()
	if err != nil {
		return 0, err
	}
	return snap.CurrentDay, nil
}

// RequireNight 在当前阶段不是夜晚时返回Forbidden。
// 所有夜间行动在触碰玩家状态前都先经过这个检查。
func RequireNight() error {
	snap, err := Current()
	if err != nil {
		return err
	}
	if snap.Phase != PhaseNight {
		return gameerror.New(gameerror.KindForbidden, "当前阶段是%s，夜间行动不可用", snap.Phase)
	}
	return nil
}

// AppendState 在调用方的事务内追加一行新状态。
// mutate 基于当前快照修改出下一个状态，表保持只追加。
func AppendState(tx *gorm.DB, mutate func(*Snapshot)) error {
	snap, err := currentFromDB(tx)
	if err != nil {
		if !gameerror.Is(err, gameerror.KindNotFound) {
			return err
		}
		snap = &Snapshot{CurrentDay: 1, Phase: PhaseDay}
	}

	mutate(snap)

	next := GameState{
		CurrentDay:          snap.CurrentDay,
		Phase:               snap.Phase,
		LastAccusedPlayerID: snap.LastAccusedPlayerID,
	}
	if err := tx.Create(&next).Error; err != nil {
		return fmt.Errorf("写入新游戏状态失败: %w", err)
	}
	return nil
}

// AdvanceDay 推进到下一天的夜晚：天数+1、阶段置为Night，
// 并在同一个事务中清除所有玩家的每晚行动标志。
// 这是外部昼夜循环驱动器的入口。
func AdvanceDay() (*Snapshot, error) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := AppendState(tx, func(s *Snapshot) {
			s.CurrentDay++
			s.Phase = PhaseNight
		}); err != nil {
			return err
		}
		return player.ResetNightFlags(tx)
	})
	if err != nil {
		return nil, err
	}

	RefreshCache()
	return Current()
}

// BeginDay 将阶段切回白天，天数不变
func BeginDay() (*Snapshot, error) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return AppendState(tx, func(s *Snapshot) {
			s.Phase = PhaseDay
		})
	})
	if err != nil {
		return nil, err
	}

	RefreshCache()
	return Current()
}

// RefreshCache 将SQLite中的最新状态写入Redis快照。
// 缓存写入失败只告警，SQLite始终是权威数据。
func RefreshCache() {
	if !database.CacheAvailable() {
		return
	}

	snap, err := currentFromDB(database.DB)
	if err != nil {
		return
	}
	raw, _ := json.Marshal(snap)

	repoMutex.Lock()
	defer repoMutex.Unlock()
	if err := database.RDB.Set(database.Ctx, StateKey, raw, 0).Err(); err != nil {
		fmt.Printf("警告: 刷新游戏状态缓存失败: %v\n", err)
	}
}
