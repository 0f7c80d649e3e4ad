package controller

import (
	"ai_learn_backend/internal/service"
	"ai_learn_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorReplyPrefix 模型调用失败时 reply 字段的前缀
const errorReplyPrefix = "⚠️ Error: "

type AssistantController struct {
	AssistantService *service.AssistantService
}

func NewAssistantController(assistantService *service.AssistantService) *AssistantController {
	return &AssistantController{AssistantService: assistantService}
}

type AskAIRequest struct {
	Message string `json:"message"`
}

type AskAIResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// AskAI godoc
// @Summary 向 AI 助手提问
// @Description 仅接受 POST；模型调用失败时仍返回 200，reply 以 "⚠️ Error:" 开头并附带 error 字段
// @Tags AI助手
// @Accept json
// @Produce json
// @Param body body AskAIRequest true "问题"
// @Success 200 {object} AskAIResponse
// @Failure 400 {object} map[string]string
// @Router /api/ask_ai/ [post]
func (c *AssistantController) AskAI(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodPost {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request method"})
		return
	}

	var req AskAIRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}

	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	reply := c.AssistantService.Ask(ctx.Request.Context(), userID, req.Message)
	ctx.JSON(http.StatusOK, newAskAIResponse(reply))
}

func newAskAIResponse(reply service.Reply) AskAIResponse {
	if !reply.OK() {
		return AskAIResponse{
			Reply: errorReplyPrefix + reply.Err.Error(),
			Error: reply.Err.Error(),
		}
	}
	return AskAIResponse{Reply: reply.Text}
}

// Info godoc
// @Summary AI 助手信息
// @Tags AI助手
// @Produce json
// @Success 200 {object} util.Response{data=service.AssistantInfo}
// @Router /api/ai-assistant/ [get]
func (c *AssistantController) Info(ctx *gin.Context) {
	util.Success(ctx, c.AssistantService.Info())
}

// History godoc
// @Summary 我的提问记录
// @Tags AI助手
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.AIQAHistory}
// @Router /api/ai-assistant/history/ [get]
func (c *AssistantController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	list, err := c.AssistantService.History(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
