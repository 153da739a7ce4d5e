package accusation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
)

// submitRequest 是提交指控的请求体
type submitRequest struct {
	AccuserID   string `json:"accuserId" binding:"required"`
	AccusedID   string `json:"accusedId" binding:"required"`
	EvidenceRef string `json:"evidenceRef"`
}

// PostSubmit 处理新指控的提交
func PostSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式，需要accuserId和accusedId"})
		return
	}

	acc, err := Submit(req.AccuserID, req.AccusedID, req.EvidenceRef)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "指控已提交，等待审批", "accusationId": acc.AccusationID})
}

// PostApprove 批准指控并开庭
func PostApprove(c *gin.Context) {
	accusationID := c.Param("id")

	t, err := Approve(accusationID)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "指控已批准，审判开始", "trialId": t.TrialID, "votingDeadline": t.VotingDeadline})
}

// PostReject 驳回指控
func PostReject(c *gin.Context) {
	accusationID := c.Param("id")

	if err := Reject(accusationID); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "指控已驳回"})
}

// GetPending 返回所有待审批指控
func GetPending(c *gin.Context) {
	pending, err := ListPending()
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accusations": pending})
}

// GetAccusation 按ID返回单条指控
func GetAccusation(c *gin.Context) {
	acc, err := GetByID(c.Param("id"))
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, acc)
}
