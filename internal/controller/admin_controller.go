package controller

import (
	"ai_learn_backend/internal/service"
	"ai_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 课程内容维护，仅教师和管理员可用
type AdminController struct {
	CatalogService *service.CatalogService
}

func NewAdminController(catalogService *service.CatalogService) *AdminController {
	return &AdminController{CatalogService: catalogService}
}

// CreateCourse godoc
// @Summary 创建课程
// @Description slug 为空时由标题生成
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateCourseRequest true "课程"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "slug 已存在"
// @Router /api/admin/courses/ [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req service.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	course, err := c.CatalogService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 级联删除主题、课时、题目及作答记录
// @Tags 内容管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{id}/ [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CatalogService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateTopic godoc
// @Summary 创建主题
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateTopicRequest true "主题"
// @Success 201 {object} util.Response{data=model.Topic}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "slug 在课程内已存在"
// @Router /api/admin/topics/ [post]
func (c *AdminController) CreateTopic(ctx *gin.Context) {
	var req service.CreateTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	topic, err := c.CatalogService.CreateTopic(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// CreateLesson godoc
// @Summary 创建课时
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateLessonRequest true "课时"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/admin/lessons/ [post]
func (c *AdminController) CreateLesson(ctx *gin.Context) {
	var req service.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	lesson, err := c.CatalogService.CreateLesson(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// CreateQuiz godoc
// @Summary 为课时创建测验
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateQuizRequest true "测验"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 409 {object} util.Response "课时已有测验"
// @Router /api/admin/quizzes/ [post]
func (c *AdminController) CreateQuiz(ctx *gin.Context) {
	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	quiz, err := c.CatalogService.CreateQuiz(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// CreateQuestion godoc
// @Summary 创建题目
// @Description 单选题(mcq)与判断题(tf)最多一个正确选项
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateQuestionRequest true "题目及选项"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/admin/questions/ [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	question, err := c.CatalogService.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// AddChoice godoc
// @Summary 为题目添加选项
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目 ID"
// @Param body body service.ChoiceInput true "选项"
// @Success 201 {object} util.Response{data=model.Choice}
// @Failure 400 {object} util.Response "已存在正确选项"
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id}/choices/ [post]
func (c *AdminController) AddChoice(ctx *gin.Context) {
	questionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var in service.ChoiceInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BindError(ctx, err)
		return
	}

	choice, err := c.CatalogService.AddChoice(ctx.Request.Context(), questionID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, choice)
}

// DeleteChoice godoc
// @Summary 删除选项
// @Description 引用该选项的作答记录保留，selected_choice_id 置空
// @Tags 内容管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "选项 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/choices/{id}/ [delete]
func (c *AdminController) DeleteChoice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CatalogService.DeleteChoice(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ImportCatalog godoc
// @Summary 批量导入课程
// @Description 请求体为 YAML 课程文件，slug 已存在的课程跳过
// @Tags 内容管理
// @Accept plain
// @Produce json
// @Security ApiKeyAuth
// @Param body body string true "YAML 课程文件"
// @Success 200 {object} util.Response{data=service.ImportStats}
// @Failure 400 {object} util.Response
// @Router /api/admin/catalog/import/ [post]
func (c *AdminController) ImportCatalog(ctx *gin.Context) {
	stats, err := c.CatalogService.ImportCatalog(ctx.Request.Context(), ctx.Request.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
