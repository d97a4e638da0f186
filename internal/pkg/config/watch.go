package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 监听配置文件变化并回调重载，用于偏好项热更新。
// 编辑器保存往往触发多次事件，这里做去抖。
type Watcher struct {
	watcher     *fsnotify.Watcher
	path        string
	onChange    func(*Config)
	debounceDur time.Duration

	mu       sync.Mutex
	lastFire time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWatcher 创建配置监听器；onChange 在成功重载后被调用
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("path 不能为空")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}

	// 监听目录而非文件本身：部分编辑器用重命名替换文件
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("添加监控路径失败: %w", err)
	}

	return &Watcher{
		watcher:     fsWatcher,
		path:        path,
		onChange:    onChange,
		debounceDur: time.Second,
		stopChan:    make(chan struct{}),
	}, nil
}

// Start 启动监听循环
func (w *Watcher) Start() {
	slog.Info("配置监听启动", "path", w.path)
	go w.loop()
}

// Stop 停止监听（可重复调用）
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.fire()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("配置监听错误", "error", err)
		}
	}
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if time.Since(w.lastFire) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.lastFire = time.Now()
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("配置热重载失败，保持旧配置", "error", err)
		return
	}

	slog.Info("配置已热重载", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
