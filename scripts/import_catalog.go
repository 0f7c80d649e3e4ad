// 从 YAML 文件批量导入课程内容
//
// 服务运行时也可以通过 POST /api/admin/catalog/import/ 导入。
// 此脚本用于首次部署时初始化课程数据。
//
// 用法: go run scripts/import_catalog.go -file configs/catalog.example.yaml

package main

import (
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/service"
	"ai_learn_backend/pkg/cache"
	"ai_learn_backend/pkg/database"
	"ai_learn_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	file := flag.String("file", "configs/catalog.example.yaml", "课程 YAML 文件")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	cfg.ForceMigrate = true

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var c cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		// 使用与服务相同的缓存，导入后课程列表立即失效
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			log.Fatalf("Redis 连接失败: %v", err)
		}
		defer rdb.Close()
		c = cache.NewRedisCache(rdb, "ai_learn:")
	}

	catalog := service.NewCatalogService(
		repository.NewCourseRepository(db),
		repository.NewTopicRepository(db),
		repository.NewLessonRepository(db),
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		c,
		cfg.Cache.CatalogTTL(),
	)

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("无法读取课程文件: %v", err)
	}
	defer f.Close()

	stats, err := catalog.ImportCatalog(context.Background(), f)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！新增课程 %d，主题 %d，课时 %d，题目 %d，跳过 %v",
		stats.Courses, stats.Topics, stats.Lessons, stats.Questions, stats.Skipped)
}
