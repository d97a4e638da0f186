package bootstrap

import (
	"log/slog"

	"github.com/yuqie6/StudyPulse/internal/ai"
	"github.com/yuqie6/StudyPulse/internal/envcontext"
	"github.com/yuqie6/StudyPulse/internal/eventbus"
	"github.com/yuqie6/StudyPulse/internal/pkg/config"
	"github.com/yuqie6/StudyPulse/internal/repository"
	"github.com/yuqie6/StudyPulse/internal/service"
)

// Core 持有跨二进制共享的核心依赖
type Core struct {
	Cfg *config.Config
	DB  *repository.Database
	Hub *eventbus.Hub
	Env envcontext.Provider

	Repos struct {
		Sample     *repository.SampleRepository
		Task       *repository.TaskRepository
		Feedback   *repository.FeedbackRepository
		Suggestion *repository.SuggestionRepository
	}

	Services struct {
		Samples *service.SampleService
		Profile *service.ProfileService
		Recall  *service.RecallService // 嵌入未配置时为 nil
	}

	Clients struct {
		DeepSeek    *ai.DeepSeekClient
		SiliconFlow *ai.SiliconFlowClient
	}
}

// NewCore 构建核心依赖（不启动采集与调度）
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)

	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	c := &Core{
		Cfg: cfg,
		DB:  db,
		Hub: eventbus.NewHub(),
		Env: envcontext.NewHostProvider(),
	}

	// Repos
	c.Repos.Sample = repository.NewSampleRepository(db.DB)
	c.Repos.Task = repository.NewTaskRepository(db.DB)
	c.Repos.Feedback = repository.NewFeedbackRepository(db.DB)
	c.Repos.Suggestion = repository.NewSuggestionRepository(db.DB)

	// Clients / InsightGenerator
	c.Clients.DeepSeek = ai.NewDeepSeekClient(&ai.DeepSeekConfig{
		APIKey:  cfg.AI.DeepSeek.APIKey,
		BaseURL: cfg.AI.DeepSeek.BaseURL,
		Model:   cfg.AI.DeepSeek.Model,
	})
	c.Clients.SiliconFlow = ai.NewSiliconFlowClient(&ai.SiliconFlowConfig{
		APIKey:         cfg.AI.SiliconFlow.APIKey,
		BaseURL:        cfg.AI.SiliconFlow.BaseURL,
		EmbeddingModel: cfg.AI.SiliconFlow.EmbeddingModel,
	})

	var insight service.InsightGenerator
	if c.Clients.DeepSeek.IsConfigured() {
		insight = ai.NewInsightAnalyzer(c.Clients.DeepSeek)
	}

	// Services
	c.Services.Samples = service.NewSampleService(c.Repos.Sample, c.Env, c.Hub)
	c.Services.Profile = service.NewProfileService(
		c.Repos.Sample,
		c.Repos.Task,
		c.Repos.Feedback,
		c.Repos.Suggestion,
		service.NewPatternAnalyzer(cfg.Analysis.MinDataPoints),
		service.NewWindowSelector(cfg.Analysis.MinDataPoints),
		service.NewSuggestionGenerator(generatorOptions(cfg)),
		cfg.Suggestions.MaxActive,
		insight,
		c.Hub,
	)

	if c.Clients.SiliconFlow.IsConfigured() {
		recall, err := service.NewRecallService(c.Clients.SiliconFlow, &service.RecallConfig{
			StoragePath: cfg.Storage.RecallPath,
		})
		if err != nil {
			slog.Warn("初始化洞察记忆失败，已禁用", "error", err)
		} else {
			c.Services.Recall = recall
		}
	}

	return c, nil
}

// generatorOptions 把配置中的偏好项映射为生成器开关（初始化与热更新共用）
func generatorOptions(cfg *config.Config) service.GeneratorOptions {
	return service.GeneratorOptions{
		BreakSuggestions:     cfg.Suggestions.BreakSuggestions,
		DifficultyAdjustment: cfg.Suggestions.DifficultyAdjustment,
		LowEnergyActivities:  cfg.Activities.LowEnergy,
		HighEnergyActivities: cfg.Activities.HighEnergy,
	}
}

// Close 释放核心依赖
func (c *Core) Close() {
	if c == nil {
		return
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			slog.Warn("关闭数据库失败", "error", err)
		}
	}
}
