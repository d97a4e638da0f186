package repository

import (
	"fmt"
	"time"
)

// DayRange 把 YYYY-MM-DD 解析成该本地日的毫秒时间戳闭区间 [start, end]，
// 供按天查询样本使用。
func DayRange(date string) (startMs int64, endMs int64, err error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("解析日期失败: %w", err)
	}
	startMs = day.UnixMilli()
	endMs = day.Add(24*time.Hour).UnixMilli() - 1
	return startMs, endMs, nil
}
