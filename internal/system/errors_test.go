package system

import (
	"syscall"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsDiskFull(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"enospc", errors.Wrap(syscall.ENOSPC, "write"), true},
		{"windows code", syscall.Errno(errorDiskFull), true},
		{"message", errors.New("There is not enough space on the disk."), true},
		{"other", errors.New("access denied"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiskFull(tt.err))
		})
	}
}

func TestIsNotReady(t *testing.T) {
	assert.False(t, IsNotReady(nil))
	assert.True(t, IsNotReady(syscall.Errno(errorNotReady)))
	assert.True(t, IsNotReady(errors.New("The device is not ready.")))
	assert.False(t, IsNotReady(errors.New("timeout")))
}

func TestHint(t *testing.T) {
	assert.Contains(t, Hint(errors.Wrap(syscall.ENOSPC, "write")), "full")
	assert.Contains(t, Hint(errors.Wrap(syscall.EACCES, "open")), "administrator")
	assert.Contains(t, Hint(errors.Wrap(syscall.EBUSY, "open")), "unmount")
	assert.Empty(t, Hint(errors.New("something else")))
}
