package controller

import (
	"ai_learn_backend/internal/util"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck 单个依赖的探活函数
type HealthCheck struct {
	Name string
	// Critical 为 true 时失败返回 503，否则只标记为 degraded
	Critical bool
	Probe    func(ctx context.Context) error
}

type HealthController struct {
	checks []HealthCheck
}

// NewHealthController rdb 为 nil 时不检查缓存
func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	checks := []HealthCheck{{
		Name:     "database",
		Critical: true,
		Probe: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, HealthCheck{
			Name:  "redis",
			Probe: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return &HealthController{checks: checks}
}

// @Summary 健康检查
// @Description 检查数据库与缓存状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	status := "ok"
	healthy := true
	components := make(gin.H, len(c.checks))

	for _, check := range c.checks {
		probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
		err := check.Probe(probeCtx)
		cancel()

		if err == nil {
			components[check.Name] = "up"
			continue
		}
		components[check.Name] = "down"
		if check.Critical {
			healthy = false
		} else if status == "ok" {
			status = "degraded"
		}
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Service unavailable",
			Data:    gin.H{"status": "down", "components": components},
		})
		return
	}
	util.Success(ctx, gin.H{"status": status, "components": components})
}
