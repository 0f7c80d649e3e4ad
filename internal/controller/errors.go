package controller

import (
	"ai_learn_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 把领域错误映射为 HTTP 状态码，未知错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case util.IsNotFound(err):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidCredentials), errors.Is(err, util.ErrTokenRevoked):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrSlugTaken),
		errors.Is(err, util.ErrUsernameTaken),
		errors.Is(err, util.ErrQuizExists):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidSlug),
		errors.Is(err, util.ErrInvalidQuestionType),
		errors.Is(err, util.ErrMultipleCorrectChoices),
		errors.Is(err, util.ErrInvalidCatalog),
		errors.Is(err, util.ErrInvalidRole):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID 解析路径中的数字 id，非法时返回 404
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.NotFound(ctx)
	}
	return id, ok
}
