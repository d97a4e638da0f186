package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuqie6/StudyPulse/internal/bootstrap"
	"github.com/yuqie6/StudyPulse/internal/httpapi"
	"github.com/yuqie6/StudyPulse/internal/pkg/buildinfo"
	"github.com/yuqie6/StudyPulse/internal/pkg/config"
)

func main() {
	listenAddr := flag.String("listen", "127.0.0.1:7530", "本地 API 监听地址")
	cfgFlag := flag.String("config", "", "配置文件路径（默认可执行文件旁的 config/config.yaml）")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := *cfgFlag
	if cfgPath == "" {
		if p, err := config.DefaultConfigPath(); err == nil {
			cfgPath = p
		}
	}
	// 首次运行写入默认配置，便于用户后续手工调整
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
			_ = config.WriteFile(cfgPath, config.Default())
		}
	}

	rt, err := bootstrap.NewAgentRuntime(ctx, cfgPath)
	if err != nil {
		slog.Error("启动 Agent 失败", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	slog.Info("StudyPulse Agent 启动中...",
		"name", rt.Cfg.App.Name,
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
	)

	apiServer, err := httpapi.Start(ctx, rt, httpapi.Options{ListenAddr: *listenAddr})
	if err != nil {
		slog.Error("启动本地 API 失败", "error", err)
		os.Exit(1)
	}
	slog.Info("StudyPulse Agent 已启动", "api", apiServer.BaseURL())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("收到系统退出信号，正在关闭...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = apiServer.Shutdown(shutdownCtx)
	shutdownCancel()

	slog.Info("StudyPulse Agent 已退出")
}
