//go:build !unix && !windows

package security

func IsAdmin() bool {
	return false
}
