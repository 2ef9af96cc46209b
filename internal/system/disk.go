package system

import (
	"github.com/dustin/go-humanize"
)

// DiskInfo contains information about a physical disk
type DiskInfo struct {
	Index     int
	Path      string
	SizeBytes uint64
	IsSystem  bool
}

// ListDisks опрашивает диски 0..maxIndex-1 и помечает systemDisk.
// Недоступные диски и диски нулевого размера пропускаются.
func ListDisks(maxIndex int, systemDisk int) ([]DiskInfo, error) {
	disks, err := probeDisks(maxIndex)
	if err != nil {
		return nil, err
	}

	for i := range disks {
		disks[i].IsSystem = disks[i].Index == systemDisk
	}
	return disks, nil
}

// DiskSize возвращает размер диска index в байтах
func DiskSize(index int) (uint64, error) {
	return diskSize(index)
}

// DevicePath возвращает путь устройства для диска index
func DevicePath(index int) (string, error) {
	return devicePath(index)
}

// DetectSystemDisk определяет индекс диска, на котором находится ОС
func DetectSystemDisk() (int, error) {
	return detectSystemDisk()
}

// SizeFormat форматирует размер в двоичных единицах: "10 MiB", "931 GiB"
func SizeFormat(bytes uint64) string {
	return humanize.IBytes(bytes)
}
