// Package main 启动本地开发用的后端，实现客户端依赖的全部 /api 接口。
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"opuluxe-go/internal/config"
	"opuluxe-go/internal/server"
	"opuluxe-go/pkg/database"
	"opuluxe-go/pkg/llm"
	"opuluxe-go/pkg/log"
	"opuluxe-go/pkg/token"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to config file")
	flag.Parse()

	// 1. 读取 .env 后再加载配置，便于通过 OPULUXE_LLM_API_KEY 等变量注入密钥
	_ = godotenv.Load()
	config.Init(*configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	// 3. 初始化 Redis 与模型
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		log.Fatal("无法连接 Redis", err)
	}
	defer rdb.Close()

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		log.Fatal("初始化 LLM 客户端失败", err)
	}
	images, err := llm.NewImageGenerator(context.Background(), cfg.TryOn)
	if err != nil {
		log.Fatal("初始化试穿生成器失败", err)
	}
	log.Infow("backend drivers", "llm", cfg.LLM.Driver, "tryon", cfg.TryOn.Driver)

	// 4. 路由
	gin.SetMode(cfg.Server.Mode)
	r := server.NewRouter(server.Deps{
		Redis:      rdb,
		JWT:        token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireHours),
		LLM:        llmClient,
		Images:     images,
		LogRequest: true,
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
