package repository

import (
	"testing"
	"time"
)

func TestDayRange(t *testing.T) {
	start, end, err := DayRange("2026-08-29")
	if err != nil {
		t.Fatalf("DayRange: %v", err)
	}

	wantStart := time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local).UnixMilli()
	if start != wantStart {
		t.Fatalf("start=%d, want %d", start, wantStart)
	}
	if end-start != 24*time.Hour.Milliseconds()-1 {
		t.Fatalf("区间宽度不符: %d", end-start)
	}

	if _, _, err := DayRange("2026/08/29"); err == nil {
		t.Fatal("非法格式应报错")
	}
}
