package system

import (
	"os"
	"unsafe"

	"github.com/ccoveille/go-safecast"
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"wipecore/internal/wipe"
)

func isDevicePath(string) bool {
	return false
}

// openDevice открывает блочное устройство эксклюзивно (O_EXCL): ядро
// откажет, если на устройстве смонтирована файловая система.
func openDevice(path string) (*Target, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_EXCL|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s for write", path)
	}
	f := os.NewFile(uintptr(fd), path)

	size, err := blockDeviceSize(fd)
	if err != nil {
		// символьные устройства не поддерживают BLKGETSIZE64
		size, err = sizeBySeek(f)
	}
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

func blockDeviceSize(fd int) (int64, error) {
	var size uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, errors.Wrap(errno, "ioctl BLKGETSIZE64")
	}
	return safecast.ToInt64(size)
}
