package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// 错误类别
// Validation/NotFound 在任何写入发生前被拒绝
// Conflict 表示并发更新冲突，调用方可重试一次
// Storage 表示事务/提交层面的失败，当前变更已整体回滚
// 派生规则的失败对调用方与主写入失败不可区分：二者都使整个事务回滚
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

// Validationf 构造校验错误
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf 构造未找到错误
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf 构造冲突错误
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Storage 包装底层存储错误，保留原错误链供驱动层判断
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// IsValidation 是否为校验错误
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound 是否为未找到错误
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict 是否为冲突错误
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsStorage 是否为存储错误
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
