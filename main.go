package main

import (
	"fmt"
	"log"

	"xcontract-core/internal/config"
	"xcontract-core/internal/database"
	"xcontract-core/internal/router"
	"xcontract-core/internal/util"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// JWT 密钥未配置时生成临时随机密钥；重启后所有会话失效
	if cfg.JWT.Secret == "" {
		secret, err := util.RandomString(48)
		if err != nil {
			log.Fatalf("generate jwt secret: %v", err)
		}
		cfg.JWT.Secret = secret
		log.Printf("WARNING: jwt.secret is empty, using an ephemeral random secret; sessions will not survive a restart")
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// 空库时创建初始 owner 账号（幂等）
	owner, err := database.EnsureOwner(db, cfg.Bootstrap)
	if err != nil {
		log.Fatalf("bootstrap owner: %v", err)
	}
	if owner != nil {
		log.Printf("bootstrapped owner account %q — rotate its password immediately", owner.Email)
	}

	if cfg.SQLConsole.Enabled {
		log.Printf("WARNING: SQL console enabled — development use only")
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
