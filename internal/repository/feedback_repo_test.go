package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"github.com/yuqie6/StudyPulse/internal/testutil"
)

func TestFeedbackRepositoryQueries(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	now := time.Now()
	for i, rating := range []int{3, 4, 5} {
		fb := &schema.SessionFeedback{
			Timestamp:   now.Add(time.Duration(i) * time.Hour).UnixMilli(),
			FocusRating: rating,
		}
		if err := repo.Create(ctx, fb); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	recent, err := repo.GetRecent(ctx, 2)
	if err != nil || len(recent) != 2 {
		t.Fatalf("GetRecent err=%v len=%d, want 2", err, len(recent))
	}
	if recent[0].FocusRating != 5 {
		t.Fatalf("GetRecent 应按时间降序: %+v", recent)
	}

	ranged, err := repo.GetByTimeRange(ctx, now.UnixMilli(), now.Add(90*time.Minute).UnixMilli())
	if err != nil || len(ranged) != 2 {
		t.Fatalf("GetByTimeRange err=%v len=%d, want 2", err, len(ranged))
	}
	if ranged[0].FocusRating != 3 {
		t.Fatalf("GetByTimeRange 应按时间升序: %+v", ranged)
	}
}
