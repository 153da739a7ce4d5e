package player

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
)

// LoginRequestBody 定义了登录请求的JSON结构
type LoginRequestBody struct {
	Name string `json:"name" binding:"required"`
}

// Login 按名字查找玩家并返回其完整记录。
// 除名字匹配外没有其他鉴权，这是游戏之夜的信任模型。
func Login(c *gin.Context) {
	var body LoginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	p, err := GetByName(body.Name)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "登录成功", "player": p})
}

// CreatePlayerRequestBody 定义了主持人注册玩家的JSON结构
type CreatePlayerRequestBody struct {
	PlayerID string `json:"playerId" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     Role   `json:"role"`
}

// CreatePlayer 注册一名新玩家，主持人接口
func CreatePlayer(c *gin.Context) {
	var body CreatePlayerRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	p := Player{PlayerID: body.PlayerID, Name: body.Name, Role: body.Role}
	if err := Create(&p); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "玩家注册成功", "player": p})
}

// updatableColumns 限定主持人补丁接口可以触碰的列
var updatableColumns = map[string]bool{
	"name":                       true,
	"role":                       true,
	"status":                     true,
	"current_voting_power":       true,
	"main_used":                  true,
	"night_vote_used":            true,
	"sheriff_shot_used":          true,
	"mafia_can_convert":          true,
	"mafia_can_reveal_self":      true,
	"doctor_can_revive":          true,
	"villager_can_change_role":   true,
	"villager_can_increase_vote": true,
	"is_jury_member":             true,
	"current_mission_id":         true,
}

// UpdatePlayer 以字段级补丁更新玩家，主持人接口
func UpdatePlayer(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	for column := range fields {
		if !updatableColumns[column] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "不允许更新的字段: " + column})
			return
		}
	}

	if err := UpdateFields(c.Param("id"), fields); err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "玩家已更新"})
}

// GetPlayers 返回全部玩家，可用 ?status= 和 ?role= 过滤
func GetPlayers(c *gin.Context) {
	filter := Filter{
		Status: Status(c.Query("status")),
		Role:   Role(c.Query("role")),
	}

	players, err := List(filter)
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, players)
}

// GetPlayerByID 返回单个玩家
func GetPlayerByID(c *gin.Context) {
	p, err := GetByID(c.Param("id"))
	if err != nil {
		c.JSON(gameerror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}
