package gamestate

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
)

// GetGameState 返回当前游戏状态快照
func GetGameState(c *gin.Context) {
	snap, err := Current()
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// PostAdvanceDay 推进到下一天的夜晚并重置每晚行动标志。
// 由主持人或外部定时驱动器调用。
func PostAdvanceDay(c *gin.Context) {
	snap, err := AdvanceDay()
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已进入新的夜晚", "state": snap})
}

// PostBeginDay 将阶段切回白天
func PostBeginDay(c *gin.Context) {
	snap, err := BeginDay()
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "天亮了", "state": snap})
}
