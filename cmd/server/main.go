package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nightcouncil/mafia-game-backend/api"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/config"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/health"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/shutdown"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/startup"
	"github.com/nightcouncil/mafia-game-backend/internal/trial"
	"github.com/nightcouncil/mafia-game-backend/pkg/lifecycle"
)

func main() {
	// .env 可以不存在，本地开发时用它覆盖环境变量
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 1. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 2. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 3. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 4. 创建生命周期管理器并启动后台服务
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	if err := health.StartRedisHealthCheck(gracefulMgr); err != nil {
		panic(fmt.Sprintf("启动健康检查器失败: %v", err))
	}
	if err := trial.StartDeadlinePoller(gracefulMgr); err != nil {
		panic(fmt.Sprintf("启动审判巡查失败: %v", err))
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("服务器启动失败: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，两阶段优雅停机
	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
