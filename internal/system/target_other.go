//go:build !linux && !windows

package system

import (
	"os"

	"github.com/cockroachdb/errors"

	"wipecore/internal/wipe"
)

func isDevicePath(string) bool {
	return false
}

func openDevice(path string) (*Target, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s for write", path)
	}

	size, err := sizeBySeek(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "failed to get size of %s", path)
	}
	if size <= 0 {
		_ = f.Close()
		return nil, errors.Wrapf(ErrEmptyTarget, "%s", path)
	}

	return &Target{
		File: f,
		Path: path,
		Size: size,
		Kind: wipe.TargetDevice,
	}, nil
}
