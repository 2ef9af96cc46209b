package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"wipecore/internal/wipe"
)

const (
	// MaxChunkSize ограничивает размер одного вызова записи
	MaxChunkSize = 128 * 1024 * 1024
	// MaxPasses верхняя граница числа проходов
	MaxPasses = 100
	// DefaultMaxDiskIndex число опрашиваемых физических дисков (PhysicalDrive0..15)
	DefaultMaxDiskIndex = 16
	// AutoSystemDisk означает автоопределение системного диска
	AutoSystemDisk = -1
	// SectorSize: размер чанка должен быть ему кратен
	SectorSize = 512
)

type WipeConfig struct {
	Mode         string  `yaml:"mode"`
	Passes       int     `yaml:"passes"`
	ChunkSize    string  `yaml:"chunk_size"`
	MaxSpeedMBps float64 `yaml:"max_speed_mbps"`
	Verify       bool    `yaml:"verify"`
	NoSync       bool    `yaml:"no_sync"`
	MaxDiskIndex int     `yaml:"max_disk_index"`
	SystemDisk   int     `yaml:"system_disk"`
}

type SecurityConfig struct {
	RequireAdmin        bool     `yaml:"require_admin"`
	RequireConfirmation bool     `yaml:"require_confirmation"`
	ExcludedDisks       []int    `yaml:"excluded_disks"`
	ProtectedPaths      []string `yaml:"protected_paths"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxFiles   int    `yaml:"max_files"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Structured bool   `yaml:"structured"`
}

type ReportingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LocalPath string `yaml:"local_path"`
	Format    string `yaml:"format"`
}

// Config конфигурация wipecore
type Config struct {
	Wipe      WipeConfig      `yaml:"wipe"`
	Security  SecurityConfig  `yaml:"security"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporting ReportingConfig `yaml:"reporting"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Wipe: WipeConfig{
			Mode:         string(wipe.ModeZeros),
			Passes:       1,
			ChunkSize:    "8MiB",
			MaxSpeedMBps: 0, // без ограничения
			MaxDiskIndex: DefaultMaxDiskIndex,
			SystemDisk:   AutoSystemDisk,
		},
		Security: SecurityConfig{
			RequireAdmin:        true,
			RequireConfirmation: true,
			ExcludedDisks:       []int{},
			ProtectedPaths:      defaultProtectedPaths(),
		},
		Logging: LoggingConfig{
			Level:      "INFO",
			File:       "",
			MaxSizeMB:  100,
			MaxFiles:   5,
			MaxAgeDays: 30,
			Structured: true,
		},
		Reporting: ReportingConfig{
			Enabled:   false,
			LocalPath: "./reports",
			Format:    "json",
		},
	}
}

// Load загружает конфигурацию из файла. Пустой путь или отсутствующий файл
// дают конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	// незаданные в файле поля сохраняют значения по умолчанию
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return config, nil
}

// Validate проверяет конфигурацию на валидность
func Validate(config *Config) error {
	if _, err := wipe.ParseMode(config.Wipe.Mode); err != nil {
		return err
	}

	// <= 0 допустимо: планировщик приводит к 1
	if config.Wipe.Passes > MaxPasses {
		return errors.Newf("passes must be at most %d, got %d", MaxPasses, config.Wipe.Passes)
	}

	if _, err := config.ChunkSizeBytes(); err != nil {
		return err
	}

	if config.Wipe.MaxSpeedMBps < 0 {
		return errors.Newf("max speed cannot be negative, got %f", config.Wipe.MaxSpeedMBps)
	}

	if config.Wipe.MaxDiskIndex <= 0 || config.Wipe.MaxDiskIndex > 128 {
		return errors.Newf("max disk index must be between 1 and 128, got %d", config.Wipe.MaxDiskIndex)
	}
	if config.Wipe.SystemDisk < AutoSystemDisk {
		return errors.Newf("system disk must be %d (auto) or a disk index, got %d", AutoSystemDisk, config.Wipe.SystemDisk)
	}

	for _, idx := range config.Security.ExcludedDisks {
		if idx < 0 {
			return errors.Newf("invalid excluded disk index: %d", idx)
		}
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[strings.ToUpper(config.Logging.Level)] {
		return errors.Newf("invalid log level: %s", config.Logging.Level)
	}

	if config.Logging.MaxSizeMB <= 0 || config.Logging.MaxSizeMB > 1000 {
		return errors.Newf("log max size must be between 1MB and 1000MB, got %d", config.Logging.MaxSizeMB)
	}
	if config.Logging.MaxFiles <= 0 || config.Logging.MaxFiles > 50 {
		return errors.Newf("log max files must be between 1 and 50, got %d", config.Logging.MaxFiles)
	}
	if config.Logging.MaxAgeDays < 0 {
		return errors.Newf("log max age cannot be negative, got %d", config.Logging.MaxAgeDays)
	}

	if config.Reporting.Enabled {
		if config.Reporting.LocalPath == "" {
			return errors.New("reporting is enabled but local_path is empty")
		}
		if config.Reporting.Format != "json" {
			return errors.Newf("unsupported report format: %s", config.Reporting.Format)
		}
	}

	// Валидация путей
	for _, path := range config.Security.ProtectedPaths {
		if path == "" {
			return errors.New("empty protected path")
		}

		cleaned := filepath.Clean(path)
		if cleaned == "." || cleaned == "/" {
			return errors.Newf("invalid protected path: %s", path)
		}
	}

	return nil
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return errors.Wrap(err, "cannot save invalid config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// ChunkSizeBytes разбирает wipe.chunk_size ("8MiB", "4 KiB", "1048576")
func (config *Config) ChunkSizeBytes() (int, error) {
	n, err := humanize.ParseBytes(config.Wipe.ChunkSize)
	if err != nil {
		return 0, errors.WithHint(
			errors.Wrapf(err, "invalid chunk size %q", config.Wipe.ChunkSize),
			"use a size such as 8MiB or 4MiB")
	}
	if n == 0 {
		return 0, errors.New("chunk size must be positive")
	}
	if n > MaxChunkSize {
		return 0, errors.Newf("chunk size too large (max %s), got %s",
			humanize.IBytes(MaxChunkSize), humanize.IBytes(n))
	}
	// сырые устройства Windows принимают только записи, кратные сектору
	if n%SectorSize != 0 {
		return 0, errors.WithHint(
			errors.Newf("chunk size %s is not a multiple of %d bytes", config.Wipe.ChunkSize, SectorSize),
			"use binary units such as 4MiB or 8MiB")
	}
	return int(n), nil
}

// WipeMode возвращает разобранный режим затирания
func (config *Config) WipeMode() wipe.Mode {
	m, err := wipe.ParseMode(config.Wipe.Mode)
	if err != nil {
		return wipe.ModeZeros
	}
	return m
}

// defaultProtectedPaths: системные каталоги, которые нельзя затирать как файлы
func defaultProtectedPaths() []string {
	if runtime.GOOS == "windows" {
		systemDrive := getSystemDrive()
		return []string{
			systemDrive + `\Windows`,
			systemDrive + `\Program Files`,
			systemDrive + `\Program Files (x86)`,
		}
	}
	return []string{"/bin", "/boot", "/etc", "/lib", "/proc", "/sbin", "/sys", "/usr"}
}

// getSystemDrive возвращает системный диск (C:, D:, и т.д.)
func getSystemDrive() string {
	windir := os.Getenv("WINDIR")
	if len(windir) >= 2 {
		return windir[:2]
	}
	return "C:" // Fallback
}
