package system

import (
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
)

var (
	// ErrEmptyTarget возвращается для файла нулевой длины: затирать нечего
	ErrEmptyTarget = errors.New("target is empty (0 bytes), nothing to wipe")

	// ErrNotRegular: цель не обычный файл и не блочное устройство
	ErrNotRegular = errors.New("target is not a regular file or device")

	// ErrNoDisks: ни одного физического диска не найдено
	ErrNoDisks = errors.New("no physical disks found")

	// ErrUnsupported: операция недоступна на этой платформе
	ErrUnsupported = errors.New("operation not supported on this platform")
)

// Коды ошибок Windows
const (
	errorNotReady = 0x15
	errorDiskFull = 112
)

// IsDiskFull проверяет, является ли ошибка ошибкой "Недостаточно места на диске"
func IsDiskFull(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ENOSPC || uintptr(errno) == errorDiskFull {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "not enough space") ||
		strings.Contains(msg, "disk full")
}

// IsNotReady: устройство извлечено или не отвечает
func IsNotReady(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && uintptr(errno) == errorNotReady {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not ready")
}

// Hint подсказка оператору для ошибок записи на устройство
func Hint(err error) string {
	switch {
	case IsDiskFull(err):
		return "the target reported it is full; it may be smaller than its reported size"
	case IsNotReady(err):
		return "the device is not ready; check that it is still connected"
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return "run as administrator (root) to write to this target"
	case errors.Is(err, syscall.EBUSY):
		return "the device is in use; unmount its filesystems first"
	default:
		return ""
	}
}
