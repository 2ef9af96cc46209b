package system

import (
	"os"
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"

	"wipecore/internal/wipe"
)

// IOCTL_DISK_GET_LENGTH_INFO
const ioctlDiskGetLengthInfo = 0x0007405C

// isDevicePath: пути вида \\.\PhysicalDriveN не проходят через os.Stat
func isDevicePath(path string) bool {
	return strings.HasPrefix(path, `\\.\`)
}

func openDevice(path string) (*Target, error) {
	h, err := openHandle(path, windows.GENERIC_READ|windows.GENERIC_WRITE)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s for write", path)
	}

	size, err := deviceLength(h)
	if err != nil {
		_ = windows.CloseHandle(h)
		return nil, errors.Wrapf(err, "failed to get size of %s", path)
	}
	if size <= 0 {
		_ = windows.CloseHandle(h)
		return nil, errors.Wrapf(ErrEmptyTarget, "%s", path)
	}

	return &Target{
		File: os.NewFile(uintptr(h), path),
		Path: path,
		Size: size,
		Kind: wipe.TargetDevice,
	}, nil
}

func openHandle(path string, access uint32) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}
	return windows.CreateFile(
		p,
		access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
}

// deviceLength возвращает длину диска через IOCTL_DISK_GET_LENGTH_INFO
func deviceLength(h windows.Handle) (int64, error) {
	var length int64
	var returned uint32
	err := windows.DeviceIoControl(
		h,
		ioctlDiskGetLengthInfo,
		nil,
		0,
		(*byte)(unsafe.Pointer(&length)),
		uint32(unsafe.Sizeof(length)),
		&returned,
		nil,
	)
	if err != nil {
		return 0, errors.Wrap(err, "DeviceIoControl(IOCTL_DISK_GET_LENGTH_INFO)")
	}
	if length < 0 {
		return 0, errors.New("negative size returned from IOCTL_DISK_GET_LENGTH_INFO")
	}
	return length, nil
}
