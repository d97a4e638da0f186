package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"github.com/yuqie6/StudyPulse/internal/testutil"
)

func TestSampleRepositoryWindowQueries(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewSampleRepository(db)
	ctx := context.Background()

	now := time.Now()
	old := &schema.EnergySample{Timestamp: now.AddDate(0, 0, -31).UnixMilli(), Level: schema.EnergyMedium}
	mid := &schema.EnergySample{Timestamp: now.AddDate(0, 0, -10).UnixMilli(), Level: schema.EnergyHigh}
	cur := &schema.EnergySample{Timestamp: now.UnixMilli(), Level: schema.EnergyLow}
	for _, s := range []*schema.EnergySample{old, mid, cur} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	window, err := repo.GetWindow(ctx, 30)
	if err != nil || len(window) != 2 {
		t.Fatalf("GetWindow err=%v len=%d, want 2", err, len(window))
	}
	if window[0].Level != schema.EnergyHigh || window[1].Level != schema.EnergyLow {
		t.Fatalf("窗口应按时间升序: %+v", window)
	}

	recent, err := repo.GetRecent(ctx, 2)
	if err != nil || len(recent) != 2 {
		t.Fatalf("GetRecent err=%v len=%d, want 2", err, len(recent))
	}
	if recent[0].Level != schema.EnergyLow {
		t.Fatalf("GetRecent 应按时间降序: %+v", recent)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 3 {
		t.Fatalf("Count err=%v count=%d, want 3", err, count)
	}
}

func TestSampleRepositoryDeleteOlderThan(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewSampleRepository(db)
	ctx := context.Background()

	now := time.Now()
	samples := []*schema.EnergySample{
		{Timestamp: now.AddDate(0, 0, -40).UnixMilli(), Level: schema.EnergyLow},
		{Timestamp: now.AddDate(0, 0, -31).UnixMilli(), Level: schema.EnergyMedium},
		{Timestamp: now.AddDate(0, 0, -5).UnixMilli(), Level: schema.EnergyHigh},
	}
	for _, s := range samples {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	deleted, err := repo.DeleteOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted=%d, want 2", deleted)
	}

	count, _ := repo.Count(ctx)
	if count != 1 {
		t.Fatalf("count=%d, want 1", count)
	}
}
