package middleware

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/logger"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RevocationChecker 判断令牌是否已注销
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

func authenticate(c *gin.Context, secret string, revocations RevocationChecker) (*util.Claims, error) {
	claims, err := util.ParseJWT(bearerToken(c), secret)
	if err != nil {
		return nil, err
	}
	if revocations != nil {
		revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// 黑名单不可用时放行，令牌本身仍然有效
			logger.Log.Warn("token revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, util.ErrTokenRevoked
		}
	}
	return claims, nil
}

func AuthMiddleware(secret string, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := authenticate(c, secret, revocations)
		if err != nil {
			logger.Log.Debug("rejected token", zap.String("path", c.FullPath()), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetUser(c, claims)
		c.Next()
	}
}

// OptionalAuth 有合法令牌时设置用户，否则按匿名请求处理
func OptionalAuth(secret string, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) != "" {
			if claims, err := authenticate(c, secret, revocations); err == nil {
				util.SetUser(c, claims)
			}
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role.Grants(role) {
				c.Next()
				return
			}
		}
		util.Forbidden(c)
		c.Abort()
	}
}
