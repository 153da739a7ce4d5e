package night

import (
	"math/rand"
	"sync"
	"time"
)

// 随机目标选择必须是对新鲜计算的候选池的均匀抽取，
// 并且可以注入种子以便测试得到确定性的结果。
var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// SeedRNG 重置随机源，仅用于测试
func SeedRNG(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng = rand.New(rand.NewSource(seed))
}

// pickIndex 在[0, n)中均匀抽取一个下标
func pickIndex(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
