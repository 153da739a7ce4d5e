package archive

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
)

// resolveRequest 是夜晚结算请求体，day缺省为当前天数
type resolveRequest struct {
	Day int `json:"day"`
}

// PostResolveNight 触发指定天数的夜晚结算，由主持人或外部定时器调用
func PostResolveNight(c *gin.Context) {
	var req resolveRequest
	// 请求体可以为空，此时结算当前天
	_ = c.ShouldBindJSON(&req)

	day := req.Day
	if day == 0 {
		current, err := gamestate.CurrentDay()
		if err != nil {
			c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		day = current
	}

	outcome, err := ResolveNight(day)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "夜晚结算完成", "outcome": outcome})
}

// GetRecap 返回指定天数的事件简报，?day=缺省为当前天数
func GetRecap(c *gin.Context) {
	day := 0
	if raw := c.Query("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的day参数"})
			return
		}
		day = parsed
	}

	if day == 0 {
		current, err := gamestate.CurrentDay()
		if err != nil {
			c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		day = current
	}

	entries, err := Recap(day)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"day": day, "events": entries})
}
