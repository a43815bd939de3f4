package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
		not  []func(error) bool
	}{
		{"validation", Validationf("内容不能为空"), IsValidation, []func(error) bool{IsNotFound, IsConflict, IsStorage}},
		{"not found", NotFoundf("消息 %d 不存在", 7), IsNotFound, []func(error) bool{IsValidation, IsConflict, IsStorage}},
		{"conflict", Conflictf("并发更新冲突"), IsConflict, []func(error) bool{IsValidation, IsNotFound, IsStorage}},
		{"storage", Storage(errors.New("disk full")), IsStorage, []func(error) bool{IsValidation, IsNotFound, IsConflict}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			for _, not := range tt.not {
				assert.False(t, not(tt.err))
			}
		})
	}
}

func TestStoragePreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage(cause)

	require.Error(t, err)
	// 原错误链保留，驱动层可以继续判断具体原因
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStorageNil(t *testing.T) {
	assert.NoError(t, Storage(nil))
}

func TestMessageFormatting(t *testing.T) {
	err := NotFoundf("消息 %d 不存在", 42)
	assert.Contains(t, err.Error(), "42")
}
