package repository

import (
	"context"
	"testing"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"github.com/yuqie6/StudyPulse/internal/testutil"
)

func TestTaskRepositoryLifecycle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := &schema.StudyTask{Title: "动态规划专题", Type: schema.TaskProblemSolving}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("创建后应回填自增 ID")
	}

	got, err := repo.GetByID(ctx, task.ID)
	if err != nil || got == nil || got.Title != "动态规划专题" {
		t.Fatalf("GetByID err=%v got=%+v", err, got)
	}
	if missing, err := repo.GetByID(ctx, 9999); err != nil || missing != nil {
		t.Fatalf("不存在的 ID 应返回 nil,nil: %v %v", missing, err)
	}

	open, err := repo.GetOpen(ctx)
	if err != nil || len(open) != 1 {
		t.Fatalf("GetOpen err=%v len=%d, want 1", err, len(open))
	}

	if err := repo.MarkCompleted(ctx, task.ID); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	open, _ = repo.GetOpen(ctx)
	if len(open) != 0 {
		t.Fatalf("完成后不应出现在未完成列表: %+v", open)
	}

	if err := repo.MarkCompleted(ctx, 9999); err == nil {
		t.Fatal("标记不存在的任务应报错")
	}
}
