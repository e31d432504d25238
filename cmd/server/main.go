package main

import (
	"log"

	"github.com/foliolog/internal/config"
	"github.com/foliolog/internal/db"
	"github.com/foliolog/internal/router"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 从环境变量引导超级管理员账号
	if err := db.EnsureAdminUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
