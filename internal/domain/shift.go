package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ClockLayout        = "15:04"
	ClockLayoutSeconds = "15:04:05"
	ShiftNameLayout    = "3:04 PM"
)

// Shift 的名称不做存储，每次读取时由 StartTime 和 EndTime 推导
type Shift struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (s Shift) GetID() int64         { return s.ID }
func (s Shift) DisplayName() string { return s.Name() }

// Name 形如 "9:00 AM - 1:00 PM"
func (s Shift) Name() string {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return s.StartTime + " - " + s.EndTime
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return s.StartTime + " - " + s.EndTime
	}
	return start.Format(ShiftNameLayout) + " - " + end.Format(ShiftNameLayout)
}

// MarshalJSON 输出时附带推导出来的 name，读取时 name 字段会被忽略
func (s Shift) MarshalJSON() ([]byte, error) {
	type shift Shift
	return json.Marshal(struct {
		shift
		Name string `json:"name"`
	}{shift: shift(s), Name: s.Name()})
}

// ParseClock 解析 HH:MM，同时兼容 HH:MM:SS
func ParseClock(value string) (time.Time, error) {
	if t, err := time.Parse(ClockLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(ClockLayoutSeconds, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间 %q 格式错误", value)
	}
	return t, nil
}
