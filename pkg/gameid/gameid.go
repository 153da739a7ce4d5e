package gameid

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New 生成一个带业务前缀的唯一ID，例如 "ACT_KILL_1735689600000_018f3c2e"。
// 时间戳部分保持ID按提交顺序可读，uuid v7后缀避免同毫秒内的碰撞。
func New(prefix string) string {
	suffix := "00000000"
	if id, err := uuid.NewV7(); err == nil {
		suffix = strings.ReplaceAll(id.String(), "-", "")[24:]
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}

// HasPrefix 判断一个ID是否由指定前缀生成
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
