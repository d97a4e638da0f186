package envcontext

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yuqie6/StudyPulse/internal/eventbus"
)

// Poller 周期性采样环境信号，缓存最新快照并推送到事件总线
type Poller struct {
	provider Provider
	hub      *eventbus.Hub
	interval time.Duration

	mu       sync.RWMutex
	latest   Snapshot
	stopChan chan struct{}
	stopOnce sync.Once
	running  bool
}

// PollerConfig 采样配置
type PollerConfig struct {
	IntervalSec int // 采样间隔（秒）
}

// DefaultPollerConfig 默认配置：60 秒刷新一次环境上下文
func DefaultPollerConfig() *PollerConfig {
	return &PollerConfig{IntervalSec: 60}
}

// NewPoller 创建环境采样器
func NewPoller(provider Provider, hub *eventbus.Hub, cfg *PollerConfig) *Poller {
	if cfg == nil {
		cfg = DefaultPollerConfig()
	}
	if cfg.IntervalSec <= 0 {
		cfg.IntervalSec = 60
	}

	return &Poller{
		provider: provider,
		hub:      hub,
		interval: time.Duration(cfg.IntervalSec) * time.Second,
		stopChan: make(chan struct{}),
	}
}

// Start 启动采样循环
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	// 启动时立即采一次，避免首个周期内快照为空
	p.poll()

	slog.Info("环境采样器启动", "interval", p.interval)
	go p.pollLoop(ctx)
	return nil
}

// Stop 停止采样（线程安全，可重复调用）
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
		slog.Info("环境采样器已停止")
	})
}

// Snapshot 返回最近一次采样结果
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// pollLoop 轮询循环
func (p *Poller) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll 执行一次采样
func (p *Poller) poll() {
	snap := Capture(p.provider)

	p.mu.Lock()
	p.latest = snap
	p.mu.Unlock()

	p.hub.Publish(eventbus.Event{
		Type: eventbus.EventContextUpdated,
		Data: map[string]any{
			"online":        snap.Online,
			"battery_level": snap.BatteryLevel,
			"battery_known": snap.BatteryKnown,
			"device_class":  snap.DeviceClass,
		},
	})
}
