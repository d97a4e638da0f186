package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"github.com/yuqie6/StudyPulse/internal/testutil"
)

func TestSuggestionRepositoryUpsert(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewSuggestionRepository(db)
	ctx := context.Background()

	rec := &schema.SuggestionRecord{
		ID:       "rest-2026082915",
		Type:     "rest",
		Priority: "high",
		Title:    "能量偏低，先缓一缓",
		Status:   schema.SuggestionPending,
	}
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// 同 ID 再次写入：更新内容而非新增一行
	update := &schema.SuggestionRecord{
		ID:       "rest-2026082915",
		Type:     "rest",
		Priority: "critical",
		Title:    "更新后的标题",
		Status:   schema.SuggestionPending,
	}
	if err := repo.Upsert(ctx, update); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	pending, err := repo.GetPending(ctx, 0)
	if err != nil || len(pending) != 1 {
		t.Fatalf("GetPending err=%v len=%d, want 1", err, len(pending))
	}
	if pending[0].Priority != "critical" || pending[0].Title != "更新后的标题" {
		t.Fatalf("Upsert 未更新字段: %+v", pending[0])
	}

	got, err := repo.GetByID(ctx, "rest-2026082915")
	if err != nil || got == nil {
		t.Fatalf("GetByID err=%v got=%v", err, got)
	}
	if missing, err := repo.GetByID(ctx, "nope"); err != nil || missing != nil {
		t.Fatalf("不存在的 ID 应返回 nil,nil: %v %v", missing, err)
	}
}

func TestSuggestionRepositoryUpdateStatus(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewSuggestionRepository(db)
	ctx := context.Background()

	rec := &schema.SuggestionRecord{ID: "break-2026082915", Type: "break", Priority: "medium", Status: schema.SuggestionPending}
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "break-2026082915", schema.SuggestionAccepted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, _ := repo.GetByID(ctx, "break-2026082915")
	if got.Status != schema.SuggestionAccepted {
		t.Fatalf("status=%q, want accepted", got.Status)
	}

	// 接受后的建议不再出现在待处理列表
	pending, _ := repo.GetPending(ctx, 0)
	if len(pending) != 0 {
		t.Fatalf("pending=%d, want 0", len(pending))
	}

	if err := repo.UpdateStatus(ctx, "nope", schema.SuggestionDismissed); err == nil {
		t.Fatal("更新不存在的建议应报错")
	}
}

func TestSuggestionRepositoryDeleteExpired(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewSuggestionRepository(db)
	ctx := context.Background()

	now := time.Now()
	records := []*schema.SuggestionRecord{
		{ID: "expired-pending", Type: "rest", Priority: "high", Status: schema.SuggestionPending, ExpiresAt: now.Add(-time.Hour).UnixMilli()},
		{ID: "expired-accepted", Type: "rest", Priority: "high", Status: schema.SuggestionAccepted, ExpiresAt: now.Add(-time.Hour).UnixMilli()},
		{ID: "no-expiry", Type: "rest", Priority: "high", Status: schema.SuggestionPending, ExpiresAt: 0},
		{ID: "fresh", Type: "rest", Priority: "high", Status: schema.SuggestionPending, ExpiresAt: now.Add(time.Hour).UnixMilli()},
	}
	for _, rec := range records {
		if err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert %s: %v", rec.ID, err)
		}
	}

	deleted, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted=%d, want 1（只删过期且待处理的）", deleted)
	}

	if got, _ := repo.GetByID(ctx, "expired-pending"); got != nil {
		t.Fatal("expired-pending 应被删除")
	}
	for _, id := range []string{"expired-accepted", "no-expiry", "fresh"} {
		if got, _ := repo.GetByID(ctx, id); got == nil {
			t.Fatalf("%s 不应被删除", id)
		}
	}
}
