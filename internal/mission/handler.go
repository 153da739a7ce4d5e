package mission

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
)

// GetMissions 返回全部任务目录
func GetMissions(c *gin.Context) {
	missions, err := List()
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"missions": missions})
}

// assignRequest 是任务指派请求体
type assignRequest struct {
	PlayerID  string `json:"playerId" binding:"required"`
	MissionID string `json:"missionId" binding:"required"`
}

// PostAssign 给玩家指派任务
func PostAssign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要playerId和missionId"})
		return
	}

	if err := Assign(req.PlayerID, req.MissionID); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "任务已指派"})
}

// GetPlayerMission 返回玩家当前指派的任务
func GetPlayerMission(c *gin.Context) {
	playerID := c.Param("id")

	m, err := PlayerMission(playerID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, m)
}

// completeRequest 是任务完成请求体
type completeRequest struct {
	PlayerID  string `json:"playerId" binding:"required"`
	MissionID string `json:"missionId" binding:"required"`
}

// PostComplete 标记任务完成并解锁能力
func PostComplete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要playerId和missionId"})
		return
	}

	ability, err := Complete(req.PlayerID, req.MissionID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "任务完成", "unlockedAbility": ability})
}
