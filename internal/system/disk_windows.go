package system

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/ccoveille/go-safecast"
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

// IOCTL_VOLUME_GET_VOLUME_DISK_EXTENTS = CTL_CODE('V', 0, METHOD_BUFFERED, FILE_ANY_ACCESS)
const ioctlVolumeGetVolumeDiskExtents = 0x00560000

type diskExtent struct {
	DiskNumber     uint32
	StartingOffset int64
	ExtentLength   int64
}

type volumeDiskExtents struct {
	NumberOfDiskExtents uint32
	Extents             [1]diskExtent
}

func devicePath(index int) (string, error) {
	if index < 0 {
		return "", errors.Newf("invalid disk index %d", index)
	}
	return fmt.Sprintf(`\\.\PhysicalDrive%d`, index), nil
}

func diskSize(index int) (uint64, error) {
	path, err := devicePath(index)
	if err != nil {
		return 0, err
	}

	h, err := openHandle(path, windows.GENERIC_READ)
	if err != nil {
		return 0, errors.Wrapf(err, "CreateFile(%s)", path)
	}
	defer windows.CloseHandle(h)

	length, err := deviceLength(h)
	if err != nil {
		return 0, err
	}
	return safecast.ToUint64(length)
}

func probeDisks(maxIndex int) ([]DiskInfo, error) {
	var disks []DiskInfo
	for i := 0; i < maxIndex; i++ {
		size, err := diskSize(i)
		if err != nil || size == 0 {
			continue
		}
		path, _ := devicePath(i)
		disks = append(disks, DiskInfo{
			Index:     i,
			Path:      path,
			SizeBytes: size,
		})
	}
	return disks, nil
}

// detectSystemDisk определяет системный диск по тому %SYSTEMDRIVE%
func detectSystemDisk() (int, error) {
	volume := `\\.\` + systemDrive()

	h, err := openHandle(volume, windows.GENERIC_READ)
	if err != nil {
		return 0, errors.Wrapf(err, "CreateFile(%s)", volume)
	}
	defer windows.CloseHandle(h)

	var extents volumeDiskExtents
	var returned uint32
	err = windows.DeviceIoControl(
		h,
		ioctlVolumeGetVolumeDiskExtents,
		nil,
		0,
		(*byte)(unsafe.Pointer(&extents)),
		uint32(unsafe.Sizeof(extents)),
		&returned,
		nil,
	)
	if err != nil {
		return 0, errors.Wrap(err, "DeviceIoControl(IOCTL_VOLUME_GET_VOLUME_DISK_EXTENTS)")
	}
	if extents.NumberOfDiskExtents == 0 {
		return 0, errors.New("volume reports 0 disk extents")
	}

	return int(extents.Extents[0].DiskNumber), nil
}

// systemDrive возвращает системный диск (C:, D:, и т.д.)
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d
	}
	if windir := os.Getenv("WINDIR"); len(windir) >= 2 {
		return windir[:2]
	}
	return "C:" // Fallback
}
