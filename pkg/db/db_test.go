package db

import (
	"testing"

	"messaging-system/pkg/apperr"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// 内存库随连接存在，连接池必须固定为单连接
	sqlDB, err := orm.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return orm
}

func deadlockErr() error {
	return &gomysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"死锁", &gomysql.MySQLError{Number: 1213}, true},
		{"锁等待超时", &gomysql.MySQLError{Number: 1205}, true},
		{"唯一键冲突不算并发冲突", &gomysql.MySQLError{Number: 1062}, false},
		{"普通错误", errors.New("boom"), false},
		{"nil", nil, false},
		{"包装后仍可识别", apperr.Storage(&gomysql.MySQLError{Number: 1213}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflictError(tt.err))
		})
	}
}

// 并发冲突重试恰好一次：第二次成功则整体成功
func TestTransactionRetriesOnceOnConflict(t *testing.T) {
	orm := newTestDB(t)

	calls := 0
	err := Transaction(orm, func(tx *gorm.DB) error {
		calls++
		if calls == 1 {
			return deadlockErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// 重试后仍冲突：不再重试，以Conflict错误返回给调用方
func TestTransactionSurfacesConflictAfterRetry(t *testing.T) {
	orm := newTestDB(t)

	calls := 0
	err := Transaction(orm, func(tx *gorm.DB) error {
		calls++
		return deadlockErr()
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, apperr.IsConflict(err))
}

// 非冲突错误不触发重试，原样返回
func TestTransactionDoesNotRetryOtherErrors(t *testing.T) {
	orm := newTestDB(t)

	cause := apperr.Validationf("内容不能为空")
	calls := 0
	err := Transaction(orm, func(tx *gorm.DB) error {
		calls++
		return cause
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, apperr.IsValidation(err))
}

// 冲突重试成功后返回nil，第一次的冲突不泄漏给调用方
func TestTransactionRetrySuccessReturnsNil(t *testing.T) {
	orm := newTestDB(t)

	failures := 1
	err := Transaction(orm, func(tx *gorm.DB) error {
		if failures > 0 {
			failures--
			return deadlockErr()
		}
		return nil
	})

	assert.NoError(t, err)
}
