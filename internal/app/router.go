package app

import (
	"ai_learn_backend/docs"
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/middleware"
	"ai_learn_backend/internal/model"
	"ai_learn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, s, cfg)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, s.auth))
	{
		a.registerLearnerRoutes(authGroup, c)

		// 3. 内容管理(教师/管理员)
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
		a.registerAdminRoutes(admin, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/", c.course.ListCourses)
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register/", c.auth.Register)
		public.POST("/login/", c.auth.Login)

		public.GET("/ai-assistant/", c.assistant.Info)
		// 方法校验由控制器完成，非 POST 返回 400 而不是 404/405
		public.Any("/ask_ai/", middleware.OptionalAuth(cfg.JWT.Secret, s.auth), c.assistant.AskAI)
		public.GET("/ask_ai/ws", middleware.OptionalAuth(cfg.JWT.Secret, s.auth), c.assistant.AskAIStream)
	}
}

func (a *App) registerLearnerRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/logout/", c.auth.Logout)
	group.GET("/profile/", c.auth.GetProfile)

	group.GET("/courses/", c.course.ListCourses)
	group.GET("/course/:slug/", c.course.CourseDetail)
	group.GET("/topic/:id/", c.course.TopicDetail)
	group.GET("/lesson/:id/", c.course.LessonDetail)

	group.GET("/quiz/", c.quiz.ListQuizzes)
	group.GET("/quiz/:lesson_id/", c.quiz.GetQuiz)
	group.POST("/quiz/:lesson_id/", c.quiz.SubmitQuiz)
	group.GET("/quiz/:lesson_id/result/", c.quiz.QuizResult)

	group.GET("/progress/", c.progress.GetProgress)
	group.GET("/ai-assistant/history/", c.assistant.History)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/courses/", c.admin.CreateCourse)
	group.DELETE("/courses/:id/", c.admin.DeleteCourse)
	group.POST("/topics/", c.admin.CreateTopic)
	group.POST("/lessons/", c.admin.CreateLesson)
	group.POST("/quizzes/", c.admin.CreateQuiz)
	group.POST("/questions/", c.admin.CreateQuestion)
	group.POST("/questions/:id/choices/", c.admin.AddChoice)
	group.DELETE("/choices/:id/", c.admin.DeleteChoice)
	group.POST("/catalog/import/", c.admin.ImportCatalog)
	group.POST("/users/:id/role/", c.auth.ChangeRole)
}
