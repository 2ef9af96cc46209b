package security

import "golang.org/x/sys/windows"

// IsAdmin проверка прав администратора по токену процесса
func IsAdmin() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
