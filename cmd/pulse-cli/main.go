package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuqie6/StudyPulse/internal/bootstrap"
	"github.com/yuqie6/StudyPulse/internal/envcontext"
	"github.com/yuqie6/StudyPulse/internal/pkg/buildinfo"
	"github.com/yuqie6/StudyPulse/internal/schema"
	"github.com/yuqie6/StudyPulse/internal/service"
)

var (
	cfgFile string
	core    *bootstrap.Core
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pulse",
		Short:   "StudyPulse - 个人学习能量记录与节律分析",
		Long:    `StudyPulse 在本地记录你的能量自评，分析日内/每周节律，推荐最优学习窗口并生成学习建议。`,
		Version: buildinfo.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			core, err = bootstrap.NewCore(cfgFile)
			if err != nil {
				slog.Error("初始化失败", "error", err)
				os.Exit(1)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if core != nil {
				core.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(feedbackCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(personaCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(recallCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// recordCmd 记录一次能量自评
func recordCmd() *cobra.Command {
	var (
		sleep        string
		caffeine     bool
		exercise     bool
		meal         string
		stress       string
		productivity int
		completed    bool
	)

	cmd := &cobra.Command{
		Use:   "record <level>",
		Short: "记录能量等级 (very-low/low/medium/high/very-high)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			level, ok := schema.ParseEnergyLevel(args[0])
			if !ok {
				fmt.Printf("❌ 非法能量等级: %s\n", args[0])
				os.Exit(1)
			}
			if productivity < 0 || productivity > 10 {
				fmt.Println("❌ --productivity 需在 1-10 之间")
				os.Exit(1)
			}

			ctx := context.Background()
			window, err := core.Services.Samples.Record(ctx, service.RecordInput{
				Level:        level,
				SleepQuality: sleep,
				Caffeine:     caffeine,
				Exercise:     exercise,
				MealState:    meal,
				StressLevel:  stress,
				Productivity: productivity,
				Completed:    completed,
			})
			if err != nil {
				fmt.Printf("❌ 记录失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 已记录能量 [%s]，30 天窗口内共 %d 条样本\n", level, len(window))
		},
	}

	cmd.Flags().StringVar(&sleep, "sleep", "", "睡眠质量 (poor/fair/good)")
	cmd.Flags().BoolVar(&caffeine, "caffeine", false, "是否摄入咖啡因")
	cmd.Flags().BoolVar(&exercise, "exercise", false, "是否运动过")
	cmd.Flags().StringVar(&meal, "meal", "", "进食状态 (hungry/normal/full)")
	cmd.Flags().StringVar(&stress, "stress", "", "压力水平 (low/medium/high)")
	cmd.Flags().IntVarP(&productivity, "productivity", "p", 0, "当前效率自评 1-10")
	cmd.Flags().BoolVar(&completed, "completed", false, "本时段计划是否完成")

	return cmd
}

// tasksCmd 学习任务管理
func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "管理学习任务",
	}

	addCmd := &cobra.Command{
		Use:   "add <title> <type>",
		Short: "新增任务 (type: problem-solving/creative/review/reading)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			taskType, ok := schema.ParseTaskType(args[1])
			if !ok {
				fmt.Printf("❌ 非法任务类型: %s\n", args[1])
				os.Exit(1)
			}
			task := &schema.StudyTask{Title: args[0], Type: taskType}
			if err := core.Repos.Task.Create(context.Background(), task); err != nil {
				fmt.Printf("❌ 创建任务失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 已创建任务 #%d [%s] %s\n", task.ID, task.Type, task.Title)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "列出未完成任务",
		Run: func(cmd *cobra.Command, args []string) {
			tasks, err := core.Repos.Task.GetOpen(context.Background())
			if err != nil {
				fmt.Printf("❌ 查询失败: %v\n", err)
				os.Exit(1)
			}
			if len(tasks) == 0 {
				fmt.Println("🎉 没有未完成任务")
				return
			}
			fmt.Printf("📋 未完成任务 (%d)\n", len(tasks))
			for _, t := range tasks {
				mark := " "
				if t.IsChallenging() {
					mark = "🔥"
				}
				fmt.Printf("  #%-4d [%-15s] %s %s\n", t.ID, t.Type, t.Title, mark)
			}
		},
	}

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "标记任务完成",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				fmt.Printf("❌ 非法任务 ID: %s\n", args[0])
				os.Exit(1)
			}
			if err := core.Repos.Task.MarkCompleted(context.Background(), id); err != nil {
				fmt.Printf("❌ 标记失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 任务 #%d 已完成\n", id)
		},
	}

	cmd.AddCommand(addCmd, listCmd, doneCmd)
	return cmd
}

// feedbackCmd 记录会话反馈
func feedbackCmd() *cobra.Command {
	var (
		energyAfter string
		note        string
	)

	cmd := &cobra.Command{
		Use:   "feedback <focus-rating>",
		Short: "记录一次学习会话反馈 (专注度 1-5)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rating, err := strconv.Atoi(args[0])
			if err != nil || rating < 1 || rating > 5 {
				fmt.Println("❌ 专注度需为 1-5 的整数")
				os.Exit(1)
			}
			if energyAfter != "" {
				if _, ok := schema.ParseEnergyLevel(energyAfter); !ok {
					fmt.Printf("❌ 非法能量等级: %s\n", energyAfter)
					os.Exit(1)
				}
			}
			fb := &schema.SessionFeedback{
				Timestamp:   time.Now().UnixMilli(),
				FocusRating: rating,
				EnergyAfter: energyAfter,
				Note:        note,
			}
			if err := core.Repos.Feedback.Create(context.Background(), fb); err != nil {
				fmt.Printf("❌ 记录失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✅ 反馈已记录")
		},
	}

	cmd.Flags().StringVar(&energyAfter, "energy-after", "", "会话后能量等级")
	cmd.Flags().StringVar(&note, "note", "", "备注")

	return cmd
}

// reportCmd 生成完整画像报告
func reportCmd() *cobra.Command {
	var withAI bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "生成节律画像报告",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			report, err := core.Services.Profile.BuildReport(ctx, envcontext.Capture(core.Env))
			if err != nil {
				fmt.Printf("❌ 生成报告失败: %v\n", err)
				os.Exit(1)
			}
			if withAI {
				if core.Cfg.AI.DeepSeek.APIKey == "" {
					fmt.Println("⚠️  DeepSeek API Key 未配置，跳过 AI 洞察")
				} else {
					core.Services.Profile.GenerateAIInsight(ctx, report)
				}
			}

			printReport(report)
		},
	}

	cmd.Flags().BoolVar(&withAI, "ai", false, "附加 AI 生成的洞察")
	return cmd
}

func printReport(report *service.ProfileReport) {
	fmt.Printf("📊 节律画像报告（样本 %d 条）\n", report.SampleCount)
	fmt.Println("═══════════════════════════════════════")

	fmt.Printf("\n🧭 作息画像: %s (置信度 %.0f%%)\n", report.Persona.Type, report.Persona.Confidence*100)
	fmt.Printf("   %s\n", report.Persona.Description)

	if len(report.OptimalWindows) > 0 {
		fmt.Println("\n⏰ 推荐学习窗口")
		for _, slot := range report.OptimalWindows {
			fmt.Printf("   %02d:00-%02d:00  平均能量 %.1f\n", slot.StartHour, slot.EndHour, slot.EnergyLevel)
		}
	}

	if len(report.Insights) > 0 {
		fmt.Println("\n💡 洞察")
		for _, line := range report.Insights {
			fmt.Printf("   • %s\n", line)
		}
	}

	m := report.Metrics
	fmt.Println("\n📈 效率指标")
	fmt.Printf("   专注度 %.0f  完成率 %.0f  稳定性 %.0f  能量利用 %.0f\n",
		m.FocusScore, m.CompletionRate, m.ConsistencyScore, m.EnergyUtilization)

	if report.AIInsight != "" {
		fmt.Println("\n🤖 AI 洞察")
		fmt.Println(indent(report.AIInsight, "   "))
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// statsCmd 输出效率指标
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "查看学习效率指标",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			window, err := core.Services.Samples.Window(ctx)
			if err != nil {
				fmt.Printf("❌ 查询失败: %v\n", err)
				os.Exit(1)
			}
			feedback, err := core.Repos.Feedback.GetRecent(ctx, service.MetricsWindowSize)
			if err != nil {
				fmt.Printf("❌ 查询失败: %v\n", err)
				os.Exit(1)
			}

			m := service.AggregateMetrics(window, feedback)
			fmt.Printf("📈 学习效率指标（最近 %d 条样本）\n", min(len(window), service.MetricsWindowSize))
			fmt.Println("═══════════════════════════════════════")
			fmt.Printf("  专注度       %.0f\n", m.FocusScore)
			fmt.Printf("  完成率       %.0f\n", m.CompletionRate)
			fmt.Printf("  稳定性       %.0f\n", m.ConsistencyScore)
			fmt.Printf("  能量利用率   %.0f\n", m.EnergyUtilization)
			fmt.Printf("  适应成功率   %.0f\n", m.AdaptationSuccess)
			fmt.Printf("  连续性质量   %.0f\n", m.StreakQuality)
			fmt.Printf("  时段优化度   %.0f\n", m.TimeOptimization)
		},
	}
}

// personaCmd 输出作息画像
func personaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "persona",
		Short: "查看作息画像",
		Run: func(cmd *cobra.Command, args []string) {
			window, err := core.Services.Samples.Window(context.Background())
			if err != nil {
				fmt.Printf("❌ 查询失败: %v\n", err)
				os.Exit(1)
			}
			analyzer := service.NewPatternAnalyzer(core.Cfg.Analysis.MinDataPoints)
			persona := service.ClassifyPersona(analyzer.Analyze(window))

			fmt.Printf("🧭 %s (置信度 %.0f%%)\n", persona.Type, persona.Confidence*100)
			fmt.Printf("   %s\n", persona.Description)
			for _, rec := range persona.Recommendations {
				fmt.Printf("   • %s\n", rec)
			}
		},
	}
}

// suggestCmd 生成并展示当前建议
func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "查看当前学习建议",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			list, err := core.Services.Profile.RefreshSuggestions(ctx, envcontext.Capture(core.Env))
			if err != nil {
				fmt.Printf("❌ 生成建议失败: %v\n", err)
				os.Exit(1)
			}
			if len(list) == 0 {
				fmt.Println("💤 当前没有建议（样本不足或状态平稳）")
				return
			}
			fmt.Printf("💡 当前建议 (%d)\n", len(list))
			for _, s := range list {
				fmt.Printf("  [%-8s] %s\n", s.Priority, s.Title)
				fmt.Printf("            %s\n", s.Description)
			}
		},
	}
}

// recallCmd 检索相似历史洞察
func recallCmd() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: "用自然语言检索历史洞察",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if core.Services.Recall == nil {
				fmt.Println("⚠️  向量记忆未配置（缺少嵌入服务密钥）")
				os.Exit(1)
			}
			query := strings.Join(args, " ")

			hits, err := core.Services.Recall.Recall(context.Background(), query, topK)
			if err != nil {
				fmt.Printf("❌ 检索失败: %v\n", err)
				os.Exit(1)
			}
			if len(hits) == 0 {
				fmt.Println("🔍 没有找到相关历史洞察")
				return
			}
			for _, h := range hits {
				fmt.Printf("📅 %s (相似度 %.2f)\n%s\n\n", h.Date, h.Similarity, indent(h.Content, "   "))
			}
		},
	}

	cmd.Flags().IntVarP(&topK, "top", "k", 5, "返回条数")
	return cmd
}
