package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuqie6/StudyPulse/internal/dto"
	"github.com/yuqie6/StudyPulse/internal/repository"
	"github.com/yuqie6/StudyPulse/internal/schema"
	"github.com/yuqie6/StudyPulse/internal/service"
)

func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/samples", a.wrapAny(a.samples))

	mux.HandleFunc("/api/patterns", a.wrapGET(a.getPatterns))
	mux.HandleFunc("/api/windows", a.wrapGET(a.getWindows))
	mux.HandleFunc("/api/persona", a.wrapGET(a.getPersona))
	mux.HandleFunc("/api/metrics", a.wrapGET(a.getMetrics))
	mux.HandleFunc("/api/report", a.wrapGET(a.getReport))

	mux.HandleFunc("/api/suggestions", a.wrapGET(a.getSuggestions))
	mux.HandleFunc("/api/suggestions/refresh", a.wrapPOST(a.refreshSuggestions))
	mux.HandleFunc("/api/suggestions/action", a.wrapPOST(a.applySuggestionAction))

	mux.HandleFunc("/api/tasks", a.wrapAny(a.tasks))
	mux.HandleFunc("/api/tasks/complete", a.wrapPOST(a.completeTask))

	mux.HandleFunc("/api/feedback", a.wrapPOST(a.postFeedback))
	mux.HandleFunc("/api/recall", a.wrapGET(a.getRecall))
	mux.HandleFunc("/api/status", a.wrapGET(a.getStatus))
}

func (a *apiServer) wrapGET(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *apiServer) wrapPOST(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *apiServer) wrapAny(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { fn(w, r) }
}

// ========== handlers ==========

func (a *apiServer) samples(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getSamples(w, r)
	case http.MethodPost:
		a.recordSample(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *apiServer) getSamples(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// 可选 date=YYYY-MM-DD：只看某一天；缺省返回整个 30 天窗口
	var (
		samples []schema.EnergySample
		err     error
	)
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		start, end, rangeErr := repository.DayRange(date)
		if rangeErr != nil {
			writeError(w, http.StatusBadRequest, rangeErr.Error())
			return
		}
		samples, err = a.rt.Repos.Sample.GetByTimeRange(ctx, start, end)
	} else {
		samples, err = a.rt.Services.Samples.Window(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(samples),
		"samples": samples,
	})
}

func (a *apiServer) recordSample(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordSampleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体解析失败: "+err.Error())
		return
	}

	level, ok := schema.ParseEnergyLevel(req.Level)
	if !ok {
		writeError(w, http.StatusBadRequest, "level 取值非法: "+req.Level)
		return
	}
	if req.Productivity < 0 || req.Productivity > 10 {
		writeError(w, http.StatusBadRequest, "productivity 需在 1-10 之间")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	window, err := a.rt.Services.Samples.Record(ctx, service.RecordInput{
		Level:        level,
		SleepQuality: req.SleepQuality,
		Caffeine:     req.Caffeine,
		Exercise:     req.Exercise,
		MealState:    req.MealState,
		StressLevel:  req.StressLevel,
		Productivity: req.Productivity,
		Completed:    req.Completed,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(window),
		"samples": window,
	})
}

func (a *apiServer) getPatterns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	window, err := a.rt.Services.Samples.Window(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	analyzer := service.NewPatternAnalyzer(a.rt.Cfg.Analysis.MinDataPoints)
	writeJSON(w, http.StatusOK, analyzer.Analyze(window))
}

func (a *apiServer) getWindows(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	window, err := a.rt.Services.Samples.Window(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	selector := service.NewWindowSelector(a.rt.Cfg.Analysis.MinDataPoints)
	writeJSON(w, http.StatusOK, selector.SelectWindows(window))
}

func (a *apiServer) getPersona(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	window, err := a.rt.Services.Samples.Window(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	analyzer := service.NewPatternAnalyzer(a.rt.Cfg.Analysis.MinDataPoints)
	writeJSON(w, http.StatusOK, service.ClassifyPersona(analyzer.Analyze(window)))
}

func (a *apiServer) getMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	window, err := a.rt.Services.Samples.Window(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	feedback, err := a.rt.Repos.Feedback.GetRecent(ctx, service.MetricsWindowSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, service.AggregateMetrics(window, feedback))
}

func (a *apiServer) getReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	report, err := a.rt.Services.Profile.BuildReport(ctx, a.rt.Poller.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if r.URL.Query().Get("ai") == "1" {
		a.rt.Services.Profile.GenerateAIInsight(ctx, report)
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *apiServer) getSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list := a.rt.Services.Profile.ActiveSuggestions(ctx, a.rt.Poller.Snapshot())
	writeJSON(w, http.StatusOK, list)
}

func (a *apiServer) refreshSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	list, err := a.rt.Services.Profile.RefreshSuggestions(ctx, a.rt.Poller.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *apiServer) applySuggestionAction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "缺少 id 参数")
		return
	}

	var req dto.SuggestionActionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体解析失败: "+err.Error())
		return
	}

	kind := service.ActionKind(req.Kind)
	if kind != service.ActionAccept && kind != service.ActionDismiss {
		writeError(w, http.StatusBadRequest, "kind 取值非法: "+req.Kind)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := a.rt.Services.Profile.ApplyAction(ctx, service.SuggestionAction{
		Kind:         kind,
		SuggestionID: id,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *apiServer) tasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getOpenTasks(w, r)
	case http.MethodPost:
		a.createTask(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *apiServer) getOpenTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tasks, err := a.rt.Repos.Task.GetOpen(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *apiServer) createTask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体解析失败: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title 不能为空")
		return
	}
	taskType, ok := schema.ParseTaskType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "type 取值非法: "+req.Type)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	task := &schema.StudyTask{
		Title: strings.TrimSpace(req.Title),
		Type:  taskType,
		DueAt: req.DueAt,
	}
	if err := a.rt.Repos.Task.Create(ctx, task); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *apiServer) completeTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id 参数非法")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := a.rt.Repos.Task.MarkCompleted(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *apiServer) postFeedback(w http.ResponseWriter, r *http.Request) {
	var req dto.FeedbackRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体解析失败: "+err.Error())
		return
	}
	if req.FocusRating < 1 || req.FocusRating > 5 {
		writeError(w, http.StatusBadRequest, "focus_rating 需在 1-5 之间")
		return
	}
	if req.EnergyAfter != "" {
		if _, ok := schema.ParseEnergyLevel(req.EnergyAfter); !ok {
			writeError(w, http.StatusBadRequest, "energy_after 取值非法: "+req.EnergyAfter)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fb := &schema.SessionFeedback{
		Timestamp:   time.Now().UnixMilli(),
		FocusRating: req.FocusRating,
		EnergyAfter: req.EnergyAfter,
		Note:        req.Note,
	}
	if err := a.rt.Repos.Feedback.Create(ctx, fb); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (a *apiServer) getRecall(w http.ResponseWriter, r *http.Request) {
	if a.rt.Services.Recall == nil {
		writeError(w, http.StatusServiceUnavailable, "向量记忆未配置（缺少嵌入服务密钥）")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "缺少 q 参数")
		return
	}
	topK := 5
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 20 {
			writeError(w, http.StatusBadRequest, "k 参数非法")
			return
		}
		topK = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	hits, err := a.rt.Services.Recall.Recall(ctx, query, topK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := dto.RecallResponse{Query: query, Hits: make([]dto.RecallHit, 0, len(hits))}
	for _, h := range hits {
		resp.Hits = append(resp.Hits, dto.RecallHit{
			Date:       h.Date,
			Content:    h.Content,
			Similarity: h.Similarity,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *apiServer) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	total, err := a.rt.Repos.Sample.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	window, err := a.rt.Services.Samples.Window(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := a.rt.Poller.Snapshot()
	out := dto.StatusDTO{
		App: dto.AppStatusDTO{
			Name:      a.rt.Cfg.App.Name,
			Version:   a.rt.Cfg.App.Version,
			StartedAt: a.rt.StartedAt.Format(time.RFC3339),
			UptimeSec: int64(time.Since(a.rt.StartedAt).Seconds()),
			SafeMode:  a.rt.DB.SafeMode,
		},
		Storage: dto.StorageStatusDTO{
			DBPath:         a.rt.Cfg.Storage.DBPath,
			SchemaVersion:  a.rt.DB.SchemaVersion,
			SafeModeReason: a.rt.DB.MigrationError,
		},
		Context: dto.ContextStatusDTO{
			Online:       snap.Online,
			BatteryLevel: snap.BatteryLevel,
			BatteryKnown: snap.BatteryKnown,
			DeviceClass:  snap.DeviceClass,
			PolledAt:     snap.Timestamp,
		},
		Samples: dto.SampleStatusDTO{
			Total:       total,
			WindowCount: len(window),
		},
	}
	writeJSON(w, http.StatusOK, out)
}
