// @title AI Learn 后端 API
// @version 1.0
// @description 课程学习、测验评分与 AI 助手的后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"ai_learn_backend/internal/app"
	"ai_learn_backend/internal/config"
	"ai_learn_backend/pkg/logger"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	configDir   string
	migrate     bool
	migrateOnly bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configDir, "config", "configs", "配置文件目录")
	flag.BoolVar(&o.migrateOnly, "migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.BoolVar(&o.migrate, "migrate", false, "启动时强制执行数据库迁移（release 模式默认不迁移）")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	// .env 可选，不存在时只用系统环境变量
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ForceMigrate = opts.migrate || opts.migrateOnly
	cfg.MigrateOnly = opts.migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if envErr != nil {
		logger.Log.Debug("no .env file loaded", zap.Error(envErr))
	}
	if opts.migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序", zap.String("driver", cfg.Database.Driver))
		return
	}

	application.Run()
}
