//go:build !linux && !windows

package system

import "github.com/cockroachdb/errors"

func probeDisks(int) ([]DiskInfo, error) {
	return nil, errors.Wrap(ErrUnsupported, "disk enumeration")
}

func diskSize(int) (uint64, error) {
	return 0, errors.Wrap(ErrUnsupported, "disk size")
}

func devicePath(int) (string, error) {
	return "", errors.Wrap(ErrUnsupported, "disk device path")
}

func detectSystemDisk() (int, error) {
	return 0, errors.Wrap(ErrUnsupported, "system disk detection")
}
