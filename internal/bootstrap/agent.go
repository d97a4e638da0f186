package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/yuqie6/StudyPulse/internal/envcontext"
	"github.com/yuqie6/StudyPulse/internal/eventbus"
	"github.com/yuqie6/StudyPulse/internal/pkg/config"
	"github.com/yuqie6/StudyPulse/internal/scheduler"
)

// AgentRuntime Agent 运行时：核心依赖 + 环境采样 + 周期调度
type AgentRuntime struct {
	*Core

	Poller     *envcontext.Poller
	Sched      *scheduler.Scheduler
	StartedAt  time.Time
	cfgWatcher *config.Watcher
}

// NewAgentRuntime 构建并启动 Agent 运行时
func NewAgentRuntime(ctx context.Context, cfgPath string) (*AgentRuntime, error) {
	core, err := NewCore(cfgPath)
	if err != nil {
		return nil, err
	}

	rt := &AgentRuntime{
		Core:      core,
		StartedAt: time.Now(),
	}

	rt.Poller = envcontext.NewPoller(core.Env, core.Hub, &envcontext.PollerConfig{
		IntervalSec: core.Cfg.Context.PollIntervalSec,
	})
	if err := rt.Poller.Start(ctx); err != nil {
		core.Close()
		return nil, err
	}

	rt.Sched = scheduler.New()
	rt.registerTasks(core.Cfg.Scheduler)
	rt.Sched.Start(ctx)

	// 配置热更新：仅建议开关与活动列表等偏好项即时生效。
	// 不回写 rt.Cfg（调度与请求协程在并发读），直接推给生成器。
	if cfgPath != "" {
		watcher, err := config.NewWatcher(cfgPath, func(newCfg *config.Config) {
			rt.Services.Profile.SetGeneratorOptions(generatorOptions(newCfg))
			slog.Info("建议偏好已热更新",
				"break_suggestions", newCfg.Suggestions.BreakSuggestions,
				"difficulty_adjustment", newCfg.Suggestions.DifficultyAdjustment,
			)
		})
		if err != nil {
			slog.Warn("配置监听不可用", "error", err)
		} else {
			watcher.Start()
			rt.cfgWatcher = watcher
		}
	}

	return rt, nil
}

// registerTasks 注册周期任务
func (rt *AgentRuntime) registerTasks(cfg config.SchedulerConfig) {
	// 建议评估：周期性重跑生成器并合入累积器
	rt.Sched.Register("suggestion-refresh", secs(cfg.SuggestionRefreshSec, 60), func(ctx context.Context) {
		if _, err := rt.Services.Profile.RefreshSuggestions(ctx, rt.Poller.Snapshot()); err != nil {
			slog.Warn("建议评估失败", "error", err)
		}
	})

	// 空闲检测：长时间无新样本时广播一次提醒事件
	rt.Sched.Register("idle-check", secs(cfg.IdleCheckSec, 10), func(ctx context.Context) {
		rt.checkIdle(ctx)
	})

	// 建议清理：删除过期未处理的建议
	rt.Sched.Register("suggestion-cleanup", secs(cfg.CleanupSec, 60), func(ctx context.Context) {
		if _, err := rt.Services.Profile.CleanupSuggestions(ctx); err != nil {
			slog.Warn("清理过期建议失败", "error", err)
		}
	})

	// 时段检查：低频重算画像快照，供 UI 和洞察记忆使用
	rt.Sched.Register("time-check", mins(cfg.TimeCheckMin, 30), func(ctx context.Context) {
		report, err := rt.Services.Profile.BuildReport(ctx, rt.Poller.Snapshot())
		if err != nil {
			slog.Warn("重算画像失败", "error", err)
			return
		}
		if rt.Services.Recall != nil {
			date := time.Now().Format("2006-01-02")
			if err := rt.Services.Recall.IndexReport(ctx, date, report); err != nil {
				slog.Debug("索引画像摘要失败", "error", err)
			}
		}
	})
}

const idleThreshold = 2 * time.Hour

// checkIdle 超过阈值没有新样本则广播 idle 事件（每个空闲期只广播一次由消费端去重）
func (rt *AgentRuntime) checkIdle(ctx context.Context) {
	samples, err := rt.Repos.Sample.GetRecent(ctx, 1)
	if err != nil || len(samples) == 0 {
		return
	}
	last := time.UnixMilli(samples[0].Timestamp)
	if time.Since(last) < idleThreshold {
		return
	}
	rt.Hub.Publish(eventbus.Event{
		Type: eventbus.EventIdleDetected,
		Data: map[string]any{"last_sample_at": samples[0].Timestamp},
	})
}

// Close 停止调度与采样并释放核心依赖
func (rt *AgentRuntime) Close() {
	if rt == nil {
		return
	}
	if rt.cfgWatcher != nil {
		rt.cfgWatcher.Stop()
	}
	if rt.Sched != nil {
		rt.Sched.Stop()
	}
	if rt.Poller != nil {
		rt.Poller.Stop()
	}
	rt.Core.Close()
}

func secs(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

func mins(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Minute
}
