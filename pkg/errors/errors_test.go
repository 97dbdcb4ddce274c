package errors

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm 转换", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"sqlite 文本", errors.New("UNIQUE constraint failed: events.access_code"), true},
		{"postgres 文本", errors.New(`ERROR: duplicate key value violates unique constraint "idx_events_access_code"`), true},
		{"其他错误", errors.New("disk I/O error"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKey(tc.err); got != tc.want {
				t.Errorf("IsDuplicateKey(%v) = %v，期望 %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound)) {
		t.Error("包装后的 ErrRecordNotFound 应识别为不存在")
	}
	if IsNotFound(errors.New("x")) {
		t.Error("普通错误不应识别为不存在")
	}
}
