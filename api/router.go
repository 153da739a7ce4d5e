package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nightcouncil/mafia-game-backend/internal/accusation"
	"github.com/nightcouncil/mafia-game-backend/internal/archive"
	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/mission"
	"github.com/nightcouncil/mafia-game-backend/internal/night"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/internal/trial"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 登录与玩家注册表
		api.POST("/auth/login", player.Login)
		api.GET("/players", player.GetPlayers)
		api.GET("/players/:id", player.GetPlayerByID)
		api.GET("/players/:id/mission", mission.GetPlayerMission)
		api.GET("/players/:id/investigations", night.GetInvestigations)
		api.GET("/players/:id/trial-votes", trial.GetVotesByVoter)

		// 游戏状态
		api.GET("/state", gamestate.GetGameState)

		// 夜间行动
		actions := api.Group("/actions")
		{
			actions.POST("/kill", night.PostKill)
			actions.POST("/protect", night.PostProtect)
			actions.POST("/investigate", night.PostInvestigate)
			actions.POST("/convert", night.PostConvert)
			actions.POST("/reveal", night.PostReveal)
			actions.POST("/revive", night.PostRevive)
			actions.POST("/change-role", night.PostChangeRole)
			actions.POST("/increase-vote", night.PostIncreaseVote)
			actions.POST("/shoot", night.PostShoot)
			actions.POST("/night-vote", night.PostNightVote)
		}

		// 指控与审判
		accusations := api.Group("/accusations")
		{
			accusations.POST("", accusation.PostSubmit)
			accusations.GET("/pending", accusation.GetPending)
			accusations.GET("/:id", accusation.GetAccusation)
			accusations.POST("/:id/approve", accusation.PostApprove)
			accusations.POST("/:id/reject", accusation.PostReject)
		}

		trials := api.Group("/trials")
		{
			trials.GET("/active", trial.GetActive)
			trials.POST("/:id/vote", trial.PostVote)
			trials.POST("/:id/resolve", trial.PostResolve)
		}

		// 任务
		missions := api.Group("/missions")
		{
			missions.GET("", mission.GetMissions)
			missions.POST("/assign", mission.PostAssign)
			missions.POST("/complete", mission.PostComplete)
		}

		// 主持人操作: 昼夜推进与夜晚结算
		admin := api.Group("/admin")
		{
			admin.POST("/players", player.CreatePlayer)
			admin.PATCH("/players/:id", player.UpdatePlayer)
			admin.POST("/advance-day", gamestate.PostAdvanceDay)
			admin.POST("/begin-day", gamestate.PostBeginDay)
			admin.POST("/resolve-night", archive.PostResolveNight)
		}

		// 每日简报
		api.GET("/recap", archive.GetRecap)
	}
}
