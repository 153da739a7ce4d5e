package night

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
)

// targetRequest 是带目标的夜间行动请求体
type targetRequest struct {
	ActorID  string `json:"actorId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

// actorRequest 是只需要行动者的请求体
type actorRequest struct {
	ActorID string `json:"actorId" binding:"required"`
}

// PostKill 处理黑手党击杀请求
func PostKill(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId和targetId"})
		return
	}

	if err := SubmitKill(req.ActorID, req.TargetID); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "击杀目标已记录"})
}

// PostProtect 处理医生保护请求
func PostProtect(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId和targetId"})
		return
	}

	if err := SubmitProtect(req.ActorID, req.TargetID); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "保护目标已记录"})
}

// PostInvestigate 处理侦探调查请求，同步返回YES/NO
func PostInvestigate(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId和targetId"})
		return
	}

	result, err := Investigate(req.ActorID, req.TargetID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"targetId": req.TargetID, "result": result})
}

// PostConvert 处理黑手党转化能力
func PostConvert(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId"})
		return
	}

	convertedID, err := Convert(req.ActorID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "转化成功", "convertedId": convertedID})
}

// PostReveal 处理黑手党揭示队友能力
func PostReveal(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId"})
		return
	}

	revealedID, err := Reveal(req.ActorID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "揭示成功", "revealedId": revealedID})
}

// PostRevive 处理医生复活能力
func PostRevive(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId"})
		return
	}

	revivedID, err := Revive(req.ActorID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "复活成功", "revivedId": revivedID})
}

// changeRoleRequest 是村民换身份请求体
type changeRoleRequest struct {
	ActorID string `json:"actorId" binding:"required"`
	NewRole string `json:"newRole" binding:"required"`
}

// PostChangeRole 处理村民换身份能力
func PostChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId和newRole"})
		return
	}

	if err := ChangeRole(req.ActorID, player.Role(req.NewRole)); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "身份已更换", "newRole": req.NewRole})
}

// PostIncreaseVote 处理村民提升票权能力
func PostIncreaseVote(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId"})
		return
	}

	newPower, err := IncreaseVotePower(req.ActorID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "票权已提升", "votingPower": newPower})
}

// PostShoot 处理警长开枪请求
func PostShoot(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要actorId和targetId"})
		return
	}

	if err := Shoot(req.ActorID, req.TargetID); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "警长开枪已记录"})
}

// nightVoteRequest 是夜间处决投票请求体
type nightVoteRequest struct {
	VoterID  string `json:"voterId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

// PostNightVote 处理夜间处决投票
func PostNightVote(c *gin.Context) {
	var req nightVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要voterId和targetId"})
		return
	}

	if err := SubmitNightVote(req.VoterID, req.TargetID); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "处决投票已记录"})
}

// GetInvestigations 返回某侦探的调查记录
func GetInvestigations(c *gin.Context) {
	detectiveID := c.Param("id")

	entries, err := InvestigationHistory(detectiveID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detectiveId": detectiveID, "investigations": entries})
}
