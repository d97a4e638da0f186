package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TaskFunc 周期任务执行体。实现应自行消化错误，不中断调度。
type TaskFunc func(ctx context.Context)

type task struct {
	name     string
	interval time.Duration
	fn       TaskFunc
	cancel   context.CancelFunc
}

// Scheduler 管理一组各自独立可取消的周期任务。
// 每个任务一个 goroutine，取消某个任务不影响其余任务。
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]*task
	wg      sync.WaitGroup
	started bool
	baseCtx context.Context
}

// New 创建调度器
func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]*task)}
}

// Register 注册周期任务。重复注册同名任务会覆盖旧任务（已启动时先停旧的）。
func (s *Scheduler) Register(name string, interval time.Duration, fn TaskFunc) {
	if interval <= 0 || fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tasks[name]; ok && old.cancel != nil {
		old.cancel()
	}

	t := &task{name: name, interval: interval, fn: fn}
	s.tasks[name] = t

	if s.started {
		s.launch(t)
	}
}

// Start 启动所有已注册任务
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.baseCtx = ctx

	for _, t := range s.tasks {
		s.launch(t)
	}

	slog.Info("调度器启动", "tasks", len(s.tasks))
}

// launch 启动单个任务循环（调用方需持有锁）
func (s *Scheduler) launch(t *task) {
	taskCtx, cancel := context.WithCancel(s.baseCtx)
	t.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		slog.Debug("周期任务启动", "name", t.name, "interval", t.interval)
		for {
			select {
			case <-taskCtx.Done():
				slog.Debug("周期任务退出", "name", t.name)
				return
			case <-ticker.C:
				t.fn(taskCtx)
			}
		}
	}()
}

// Cancel 单独取消某个任务
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks[name]; ok {
		if t.cancel != nil {
			t.cancel()
		}
		delete(s.tasks, name)
	}
}

// Stop 取消全部任务并等待退出
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for _, t := range s.tasks {
		if t.cancel != nil {
			t.cancel()
		}
	}
	s.tasks = make(map[string]*task)
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("调度器已停止")
}
