package system

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// sysfsRoot подменяется в тестах
var sysfsRoot = "/sys"

// префиксы виртуальных и съёмных устройств, которые не считаются дисками
var skippedDiskPrefixes = []string{"loop", "ram", "zram", "sr", "fd"}

// sectorSize: /sys/block/<name>/size всегда в 512-байтных секторах
const sectorSize = 512

// diskNames возвращает отсортированные имена целых дисков из /sys/block.
// Индекс диска: позиция в этом списке.
func diskNames(root string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, "block"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read /sys/block")
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if slices.ContainsFunc(skippedDiskPrefixes, func(p string) bool {
			return strings.HasPrefix(name, p)
		}) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// readDiskSize читает размер диска name в байтах
func readDiskSize(root, name string) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(root, "block", name, "size"))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read size of %s", name)
	}

	sectors, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid size for %s", name)
	}
	return sectors * sectorSize, nil
}

func probeDisks(maxIndex int) ([]DiskInfo, error) {
	names, err := diskNames(sysfsRoot)
	if err != nil {
		return nil, err
	}

	var disks []DiskInfo
	for i, name := range names {
		if i >= maxIndex {
			break
		}
		size, err := readDiskSize(sysfsRoot, name)
		if err != nil || size == 0 {
			continue
		}
		disks = append(disks, DiskInfo{
			Index:     i,
			Path:      "/dev/" + name,
			SizeBytes: size,
		})
	}
	return disks, nil
}

func diskName(index int) (string, error) {
	names, err := diskNames(sysfsRoot)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(names) {
		return "", errors.Newf("disk %d not found", index)
	}
	return names[index], nil
}

func diskSize(index int) (uint64, error) {
	name, err := diskName(index)
	if err != nil {
		return 0, err
	}
	return readDiskSize(sysfsRoot, name)
}

func devicePath(index int) (string, error) {
	name, err := diskName(index)
	if err != nil {
		return "", err
	}
	return "/dev/" + name, nil
}

// detectSystemDisk находит диск, на котором смонтирован "/":
// stat("/") -> /sys/dev/block/MAJ:MIN -> родительский диск.
func detectSystemDisk() (int, error) {
	var st unix.Stat_t
	if err := unix.Stat("/", &st); err != nil {
		return 0, errors.Wrap(err, "stat /")
	}

	dev, err := safecast.ToUint64(st.Dev)
	if err != nil {
		return 0, err
	}

	name, err := resolveDiskName(sysfsRoot, unix.Major(dev), unix.Minor(dev))
	if err != nil {
		return 0, err
	}

	names, err := diskNames(sysfsRoot)
	if err != nil {
		return 0, err
	}
	idx := slices.Index(names, name)
	if idx < 0 {
		return 0, errors.Newf("root disk %s is not listed in /sys/block", name)
	}
	return idx, nil
}

// resolveDiskName переводит номер устройства в имя целого диска.
// Разделы поднимаются к родителю, device-mapper (LVM, LUKS): по slaves/.
func resolveDiskName(root string, major, minor uint32) (string, error) {
	link := filepath.Join(root, "dev", "block", fmt.Sprintf("%d:%d", major, minor))
	dir, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", link)
	}

	for depth := 0; depth < 8; depth++ {
		if _, err := os.Stat(filepath.Join(dir, "partition")); err == nil {
			dir = filepath.Dir(dir)
			continue
		}

		slaves, _ := os.ReadDir(filepath.Join(dir, "slaves"))
		if len(slaves) == 0 {
			return filepath.Base(dir), nil
		}

		next, err := filepath.EvalSymlinks(filepath.Join(dir, "slaves", slaves[0].Name()))
		if err != nil {
			return "", errors.Wrapf(err, "resolve slave of %s", filepath.Base(dir))
		}
		dir = next
	}

	return "", errors.Newf("device %d:%d: too many stacked devices", major, minor)
}
