package controller

import (
	"ai_learn_backend/internal/service"
	"ai_learn_backend/internal/util"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListQuizzes godoc
// @Summary 测验列表
// @Description 返回所有包含题目的课时
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/quiz/ [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	lessons, err := c.QuizService.ListQuizLessons(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// GetQuiz godoc
// @Summary 获取课时测验
// @Description 返回题目和选项，不包含正确答案
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param lesson_id path int true "课时 ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 404 {object} util.Response
// @Router /api/quiz/{lesson_id}/ [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	lessonID, ok := pathID(ctx, "lesson_id")
	if !ok {
		return
	}

	view, err := c.QuizService.QuizForLesson(ctx.Request.Context(), lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SubmitQuiz godoc
// @Summary 提交测验
// @Description 接受 JSON {"answers":{"<questionId>":<choiceId>}} 或表单字段 question_<questionId>=<choiceId>；重新提交会覆盖之前的作答
// @Tags 测验
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param lesson_id path int true "课时 ID"
// @Param body body service.QuizSubmission false "作答"
// @Success 200 {object} util.Response{data=service.QuizOutcome}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/{lesson_id}/ [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	lessonID, ok := pathID(ctx, "lesson_id")
	if !ok {
		return
	}

	sub, err := bindSubmission(ctx)
	if err != nil {
		util.BindError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	outcome, err := c.QuizService.Submit(ctx.Request.Context(), claims.UserID, lessonID, sub)
	if err != nil {
		if errors.Is(err, util.ErrChoiceNotFound) {
			util.BadRequest(ctx, err.Error())
			return
		}
		respondError(ctx, err)
		return
	}

	util.SuccessWithMessage(ctx, outcome.Summary(), gin.H{
		"outcome":  outcome,
		"redirect": fmt.Sprintf("/api/quiz/%d/result/", lessonID),
	})
}

// bindSubmission 支持 JSON 与表单两种提交方式，空值视为未作答
func bindSubmission(ctx *gin.Context) (service.QuizSubmission, error) {
	sub := service.QuizSubmission{Answers: map[uint]uint{}}

	if ctx.ContentType() == binding.MIMEJSON {
		if err := ctx.ShouldBindJSON(&sub); err != nil {
			return sub, err
		}
		if sub.Answers == nil {
			sub.Answers = map[uint]uint{}
		}
		return sub, nil
	}

	if err := ctx.Request.ParseForm(); err != nil {
		return sub, err
	}
	for key, values := range ctx.Request.PostForm {
		if !strings.HasPrefix(key, util.QuestionFieldPrefix) || len(values) == 0 || values[0] == "" {
			continue
		}
		questionID, ok := util.ParseID(strings.TrimPrefix(key, util.QuestionFieldPrefix))
		if !ok {
			continue
		}
		choiceID, ok := util.ParseID(values[0])
		if !ok {
			return sub, fmt.Errorf("invalid choice %q for question %d", values[0], questionID)
		}
		sub.Answers[questionID] = choiceID
	}
	return sub, nil
}

// QuizResult godoc
// @Summary 测验结果
// @Description 返回当前用户在该课时最近一次提交的作答记录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param lesson_id path int true "课时 ID"
// @Success 200 {object} util.Response{data=service.QuizResultView}
// @Failure 404 {object} util.Response
// @Router /api/quiz/{lesson_id}/result/ [get]
func (c *QuizController) QuizResult(ctx *gin.Context) {
	lessonID, ok := pathID(ctx, "lesson_id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.Result(ctx.Request.Context(), claims.UserID, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
