package app

import (
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/controller"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/service"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/cache"
	"ai_learn_backend/pkg/configwatcher"
	"ai_learn_backend/pkg/database"
	"ai_learn_backend/pkg/logger"
	"ai_learn_backend/pkg/monitoring"
	"ai_learn_backend/pkg/scheduler"
	"ai_learn_backend/pkg/security"
	"ai_learn_backend/pkg/tracing"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheKeyPrefix = "ai_learn:"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Cache           cache.Cache
	services        *services
	scheduler       *scheduler.Scheduler
	tracer          *sdktrace.TracerProvider
	bgCtx           context.Context
	stopBackground  context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	course   *repository.CourseRepository
	topic    *repository.TopicRepository
	lesson   *repository.LessonRepository
	quiz     *repository.QuizRepository
	question *repository.QuestionRepository
	progress *repository.ProgressRepository
	attempt  *repository.AttemptRepository
	aiqa     *repository.AIQARepository
}

type services struct {
	auth      *service.AuthService
	catalog   *service.CatalogService
	quiz      *service.QuizService
	progress  *service.ProgressService
	assistant *service.AssistantService
}

type controllers struct {
	auth      *controller.AuthController
	course    *controller.CourseController
	quiz      *controller.QuizController
	progress  *controller.ProgressController
	assistant *controller.AssistantController
	admin     *controller.AdminController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		course:   repository.NewCourseRepository(db),
		topic:    repository.NewTopicRepository(db),
		lesson:   repository.NewLessonRepository(db),
		quiz:     repository.NewQuizRepository(db),
		question: repository.NewQuestionRepository(db),
		progress: repository.NewProgressRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		aiqa:     repository.NewAIQARepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, a.Cache, cfg)
	s.catalog = service.NewCatalogService(
		repos.course,
		repos.topic,
		repos.lesson,
		repos.quiz,
		repos.question,
		a.Cache,
		cfg.Cache.CatalogTTL(),
	)
	s.quiz = service.NewQuizService(repos.lesson, repos.question, repos.progress, repos.attempt, db)
	s.progress = service.NewProgressService(repos.progress)

	// 生成模型客户端只在启动时创建一次
	s.assistant = service.NewAssistantService(service.NewAIService(cfg.Assistant), repos.aiqa, cfg.Assistant)
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.assistant.UpdateSettings(newCfg.Assistant)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		course:    controller.NewCourseController(s.catalog),
		quiz:      controller.NewQuizController(s.quiz),
		progress:  controller.NewProgressController(s.progress),
		assistant: controller.NewAssistantController(s.assistant),
		admin:     controller.NewAdminController(s.catalog),
		health:    controller.NewHealthController(db, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.bgCtx, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window(), cfg.RateLimit.ExemptPaths...))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	a.scheduler = scheduler.New(5 * time.Minute)
	if err := a.scheduler.Add("@daily", "prune-assistant-history", s.assistant.PruneHistory); err != nil {
		logger.Log.Error("Failed to schedule history pruning", zap.Error(err))
	}
	a.scheduler.Start()

	err := configwatcher.Watch(a.bgCtx, a.Config.ConfigDir, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}
}

// initCache 启用 Redis 时使用 Redis，否则退回进程内缓存
func (a *App) initCache(cfg *config.Config) {
	if !cfg.Redis.Enabled {
		logger.Log.Info("Redis disabled, using in-memory cache")
		a.Cache = cache.NewMemoryCache()
		return
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	a.Redis = rdb
	a.Cache = cache.NewRedisCache(rdb, cacheKeyPrefix)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := newApp(cfg, db)
	if cfg.MigrateOnly {
		return app
	}

	app.initCache(cfg)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if err := app.buildRouter(); err != nil {
		logger.Log.Fatal("Failed to build router", zap.Error(err))
	}
	app.startBackgroundTasks(app.services)

	return app
}

func newApp(cfg *config.Config, db *gorm.DB) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:         cfg,
		DB:             db,
		bgCtx:          ctx,
		stopBackground: cancel,
	}
}

// buildRouter 注册校验规则后依次组装 repository、service、controller 和路由，需要先设置 Cache
func (a *App) buildRouter() error {
	if err := util.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	repos := a.initRepositories(a.DB)
	a.services = a.initServices(repos, a.Config, a.DB)
	controllers := a.initControllers(a.services, a.DB)

	router := gin.Default()
	a.setupMiddlewares(router, a.Config)
	a.registerRoutes(router, controllers, a.services, a.Config)
	a.Router = router
	return nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.stopBackground != nil {
		a.stopBackground()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
