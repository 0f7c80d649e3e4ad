package scheduler

import (
	"ai_learn_backend/pkg/logger"
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job 定时任务，返回错误只记录日志
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func New(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		timeout: timeout,
	}
}

// Add 以标准 cron 表达式或 @daily 之类的描述符注册任务
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			logger.Log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		logger.Log.Debug("scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
