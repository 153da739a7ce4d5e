package player

import (
	"sync"
)

// --- Redis 键名常量 ---

const (
	// KnownPlayersKey 是一个 Redis Set 的键，缓存所有已注册玩家的PlayerID，
	// 用于在不查SQLite的情况下快速判断玩家是否存在。
	KnownPlayersKey = "player:known"
)

// repoMutex 是模块内部的全局读写锁，
// 保护对本模块管理的Redis键的并发访问。
var repoMutex sync.RWMutex

// LockRepository 获取模块全局写锁。
func LockRepository() {
	repoMutex.Lock()
}

// UnlockRepository 释放模块全局写锁。
func UnlockRepository() {
	repoMutex.Unlock()
}

// RLockRepository 获取模块全局读锁。
func RLockRepository() {
	repoMutex.RLock()
}

// RUnlockRepository 释放模块全局读锁。
func RUnlockRepository() {
	repoMutex.RUnlock()
}
