package security

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"wipecore/internal/config"
	"wipecore/internal/system"
)

var (
	// ErrProtectedDisk: диск системный или исключён конфигурацией
	ErrProtectedDisk = errors.New("disk is protected")

	// ErrProtectedPath: путь лежит в защищённом каталоге
	ErrProtectedPath = errors.New("path is protected")

	// ErrNotAdmin: нет прав администратора
	ErrNotAdmin = errors.New("administrator privileges required")
)

// Источник индекса системного диска
const (
	SourceUser     = "user-specified"
	SourceDetected = "auto-detected"
	SourceDefault  = "default"
)

// ResolveSystemDisk выбирает системный диск: явное значение (override >= 0),
// затем автоопределение, иначе диск 0.
func ResolveSystemDisk(override int, detect func() (int, error)) (int, string) {
	if override >= 0 {
		return override, SourceUser
	}
	if detect != nil {
		if idx, err := detect(); err == nil && idx >= 0 {
			return idx, SourceDetected
		}
	}
	return 0, SourceDefault
}

// CheckDisk запрещает системный диск и диски из security.excluded_disks
func CheckDisk(disk system.DiskInfo, cfg *config.Config) error {
	if disk.IsSystem {
		return errors.WithHint(
			errors.Wrapf(ErrProtectedDisk, "disk %d is the system disk", disk.Index),
			"override detection with --system-disk <N> if this is wrong")
	}
	if cfg != nil && lo.Contains(cfg.Security.ExcludedDisks, disk.Index) {
		return errors.Wrapf(ErrProtectedDisk, "disk %d is excluded by configuration", disk.Index)
	}
	return nil
}

// WipeCandidates оставляет только диски, которые разрешено затирать
func WipeCandidates(disks []system.DiskInfo, cfg *config.Config) []system.DiskInfo {
	return lo.Filter(disks, func(d system.DiskInfo, _ int) bool {
		return CheckDisk(d, cfg) == nil
	})
}

// CheckPath запрещает затирание файлов внутри security.protected_paths.
// Символические ссылки раскрываются: открытие цели идёт по ним же.
func CheckPath(path string, cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "invalid path %s", path)
	}

	resolved, err := resolvePath(abs)
	if err != nil {
		return errors.Wrapf(ErrProtectedPath, "cannot resolve %s: %v", abs, err)
	}

	for _, protected := range cfg.Security.ProtectedPaths {
		dirs := []string{protected}
		if realDir, err := filepath.EvalSymlinks(protected); err == nil {
			dirs = append(dirs, realDir)
		}
		for _, dir := range dirs {
			if isWithin(abs, dir) || isWithin(resolved, dir) {
				return errors.Wrapf(ErrProtectedPath, "%s is inside %s", resolved, protected)
			}
		}
	}
	return nil
}

// resolvePath раскрывает ссылки в abs. Несуществующий путь возвращается как
// есть: открыть его всё равно не получится.
func resolvePath(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if os.IsNotExist(err) {
		return abs, nil
	}
	return "", err
}

func isWithin(path, dir string) bool {
	dir = filepath.Clean(dir)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		dir = strings.ToLower(dir)
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// RequireAdmin проверяет права, если их требует security.require_admin
func RequireAdmin(cfg *config.Config) error {
	if cfg == nil || !cfg.Security.RequireAdmin {
		return nil
	}
	if !IsAdmin() {
		return errors.WithHint(ErrNotAdmin, "run from an elevated prompt or as root")
	}
	return nil
}
