package controller

import (
	"ai_learn_backend/internal/service"
	"ai_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CatalogService *service.CatalogService
}

func NewCourseController(catalogService *service.CatalogService) *CourseController {
	return &CourseController{CatalogService: catalogService}
}

// ListCourses godoc
// @Summary 课程列表
// @Description 按标题排序返回全部课程
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses/ [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CatalogService.ListCourses(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CourseDetail godoc
// @Summary 课程详情
// @Description 返回课程的主题与课时，可通过 lesson 参数选中本课程内的课时
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "课程 slug"
// @Param lesson query int false "选中的课时 ID"
// @Success 200 {object} util.Response{data=service.CourseDetailView}
// @Failure 404 {object} util.Response
// @Router /api/course/{slug}/ [get]
func (c *CourseController) CourseDetail(ctx *gin.Context) {
	var lessonID *uint
	if raw := ctx.Query("lesson"); raw != "" {
		id, ok := util.ParseID(raw)
		if !ok {
			util.NotFound(ctx)
			return
		}
		lessonID = &id
	}

	view, err := c.CatalogService.CourseDetail(ctx.Request.Context(), ctx.Param("slug"), lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// TopicDetail godoc
// @Summary 主题详情
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题 ID"
// @Success 200 {object} util.Response{data=model.Topic}
// @Failure 404 {object} util.Response
// @Router /api/topic/{id}/ [get]
func (c *CourseController) TopicDetail(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	topic, err := c.CatalogService.TopicDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// LessonDetail godoc
// @Summary 课时详情
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时 ID"
// @Success 200 {object} util.Response{data=service.LessonDetailView}
// @Failure 404 {object} util.Response
// @Router /api/lesson/{id}/ [get]
func (c *CourseController) LessonDetail(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.CatalogService.LessonDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
