package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("参数校验失败")
	ErrNotFound        = errors.New("记录不存在")
	ErrDoctorNotFound  = errors.New("医生不存在")
	ErrPersistence     = errors.New("数据持久化失败")
	ErrNoSelection     = errors.New("当前没有选中的单元格")
	ErrNothingToRemove = errors.New("该单元格尚未分配医生")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError 表示内存中的变更已经生效，但没能写入存储
type PersistenceError struct {
	Keys []string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("无法保存 %v: %v", e.Keys, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
