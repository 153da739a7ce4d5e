package trial

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
)

// GetActive 返回当前进行中的审判
func GetActive(c *gin.Context) {
	t, err := GetActiveTrial()
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, t)
}

// castVoteRequest 是陪审团投票请求体
type castVoteRequest struct {
	VoterID  string `json:"voterId" binding:"required"`
	VoteType string `json:"voteType" binding:"required"`
}

// PostVote 处理对指定审判的陪审团投票
func PostVote(c *gin.Context) {
	trialID := c.Param("id")

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要voterId和voteType"})
		return
	}

	t, err := CastVote(req.VoterID, trialID, req.VoteType)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "投票成功",
		"guiltyTally":    t.GuiltyTally,
		"notGuiltyTally": t.NotGuiltyTally,
	})
}

// PostResolve 手动触发指定审判的结案，由主持人调用
func PostResolve(c *gin.Context) {
	trialID := c.Param("id")

	t, err := ResolveTrial(trialID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "审判已结案", "verdict": t.Verdict, "trial": t})
}

// GetVotesByVoter 返回某玩家投出的全部选票
func GetVotesByVoter(c *gin.Context) {
	voterID := c.Param("id")

	votes, err := ListVotesByVoter(voterID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"voterId": voterID, "votes": votes})
}
