//go:build unix

package security

import "golang.org/x/sys/unix"

// IsAdmin проверка прав администратора (root)
func IsAdmin() bool {
	return unix.Geteuid() == 0
}
