package service

import (
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/pkg/logger"
	"ai_learn_backend/pkg/monitoring"
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const historyPageSize = 20

// Reply 是一次问答的结果：成功时 Err 为 nil，失败时 Text 为空
type Reply struct {
	Text string
	Err  error
}

func (r Reply) OK() bool {
	return r.Err == nil
}

type AssistantInfo struct {
	Model     string `json:"model"`
	MaxLength int    `json:"maxLength"`
	Timeout   int    `json:"timeoutSeconds"`
}

// AssistantService 在进程启动时创建一次，由 App 注入到控制器
type AssistantService struct {
	generator TextGenerator
	history   *repository.AIQARepository

	mu       sync.RWMutex
	settings config.AssistantConfig
}

func NewAssistantService(generator TextGenerator, history *repository.AIQARepository, cfg config.AssistantConfig) *AssistantService {
	return &AssistantService{
		generator: generator,
		history:   history,
		settings:  cfg,
	}
}

// UpdateSettings 配置热更新时调用，只影响生成参数
func (s *AssistantService) UpdateSettings(cfg config.AssistantConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.Model != s.settings.Model || cfg.BaseURL != s.settings.BaseURL {
		logger.Log.Warn("assistant model/endpoint change requires restart",
			zap.String("model", cfg.Model),
			zap.String("base_url", cfg.BaseURL))
	}
	s.settings.MaxLength = cfg.MaxLength
	s.settings.TimeoutSeconds = cfg.TimeoutSeconds
	s.settings.HistoryRetentionDays = cfg.HistoryRetentionDays
}

func (s *AssistantService) current() config.AssistantConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *AssistantService) Info() AssistantInfo {
	cfg := s.current()
	return AssistantInfo{
		Model:     cfg.Model,
		MaxLength: cfg.MaxLength,
		Timeout:   cfg.TimeoutSeconds,
	}
}

// Ask 调用生成模型。模型失败不会作为 error 返回，而是放在 Reply.Err 中
func (s *AssistantService) Ask(ctx context.Context, userID uint, message string) Reply {
	cfg := s.current()

	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
	}

	start := time.Now()
	texts, err := s.generator.Generate(ctx, message, GenerateOptions{
		MaxLength:          cfg.MaxLength,
		NumReturnSequences: 1,
	})
	monitoring.AssistantGenerationDuration.Observe(time.Since(start).Seconds())

	var reply Reply
	switch {
	case err != nil:
		reply.Err = err
	case len(texts) == 0:
		reply.Err = ErrEmptyGeneration
	default:
		reply.Text = cleanGenerated(texts[0])
	}

	s.record(userID, message, reply)
	return reply
}

// cleanGenerated 去掉换行并裁剪首尾空白
func cleanGenerated(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

func (s *AssistantService) record(userID uint, message string, reply Reply) {
	entry := &model.AIQAHistory{
		UserID:   userID,
		Question: message,
		Answer:   reply.Text,
		Source:   model.QASourceModel,
	}
	if !reply.OK() {
		monitoring.AssistantRequests.WithLabelValues("error").Inc()
		logger.Log.Warn("text generation failed", zap.Uint("user_id", userID), zap.Error(reply.Err))
		entry.Answer = reply.Err.Error()
		entry.Source = model.QASourceError
	} else {
		monitoring.AssistantRequests.WithLabelValues("ok").Inc()
	}

	if s.history == nil {
		return
	}
	// 请求上下文可能已超时，历史记录单独使用短超时
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.history.Create(ctx, entry); err != nil {
		logger.Log.Error("failed to save assistant history", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *AssistantService) History(ctx context.Context, userID uint) ([]model.AIQAHistory, error) {
	return s.history.ListByUser(ctx, userID, historyPageSize)
}

// PruneHistory 删除超过保留天数的问答记录，retention 为 0 时不清理
func (s *AssistantService) PruneHistory(ctx context.Context) error {
	days := s.current().HistoryRetentionDays
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := s.history.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	logger.Log.Info("pruned assistant history", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return nil
}
