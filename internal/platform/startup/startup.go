package startup

import (
	"fmt"

	"github.com/nightcouncil/mafia-game-backend/internal/accusation"
	"github.com/nightcouncil/mafia-game-backend/internal/archive"
	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/mission"
	"github.com/nightcouncil/mafia-game-backend/internal/night"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/internal/trial"
)

// InitializeApplication 是应用首次启动时执行的总入口。
// 顺序有讲究: 先游戏状态和玩家注册表，其余模块依赖它们。
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := gamestate.PrimeCachedDB(); err != nil {
		return err
	}
	if err := player.PrimeCachedDB(); err != nil {
		return err
	}
	if err := mission.PrimeCachedDB(); err != nil {
		return err
	}
	if err := night.PrimeCachedDB(); err != nil {
		return err
	}
	if err := accusation.PrimeCachedDB(); err != nil {
		return err
	}
	if err := trial.PrimeCachedDB(); err != nil {
		return err
	}
	if err := archive.PrimeCachedDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时热重建Redis缓存。
// SQLite始终是权威数据，重建只是把热数据重新灌回Redis。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	if err := gamestate.WarmupCache(); err != nil {
		return err
	}

	err := func() error {
		player.LockRepository()
		defer player.UnlockRepository()
		if err := player.WarmupCache(); err != nil {
			return err
		}
		return trial.WarmupCache()
	}()
	if err != nil {
		return err
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
