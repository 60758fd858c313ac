package scheduler

import "time"

// StartOfDay 去掉时分秒，保留时区
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MostRecentSunday 返回 t 所在周的周日（t 本身是周日时返回当天）
func MostRecentSunday(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
