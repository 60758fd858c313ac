package utils

import (
	"strings"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
)

// ValidateName 检查名称是否为空或全为空白字符
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewValidationError(field, "%s 不能为空", field)
	}
	return nil
}

// ValidateShiftTime 检查班次的开始时间和结束时间
func ValidateShiftTime(startTime, endTime string) error {
	if startTime == "" || endTime == "" {
		return domain.NewValidationError("startTime", "请选择有效的时间范围")
	}

	start, err := domain.ParseClock(startTime)
	if err != nil {
		return domain.NewValidationError("startTime", "班次的开始时间格式错误")
	}
	end, err := domain.ParseClock(endTime)
	if err != nil {
		return domain.NewValidationError("endTime", "班次的结束时间格式错误")
	}

	if end.Before(start) {
		return domain.NewValidationError("endTime", "班次的结束时间不能小于开始时间")
	}

	return nil
}

// NormalizeClock 将 HH:MM:SS 统一为 HH:MM
func NormalizeClock(value string) string {
	t, err := domain.ParseClock(value)
	if err != nil {
		return value
	}
	return t.Format(domain.ClockLayout)
}
