package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"wipecore/internal/config"
	"wipecore/internal/verify"
	"wipecore/internal/wipe"
)

// Version записывается в каждый отчёт
const Version = "1.0.0"

// Report представляет JSON отчёт о запуске
type Report struct {
	RunID      string            `json:"run_id"`
	Version    string            `json:"version"`
	Hostname   string            `json:"hostname,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Config     map[string]any    `json:"config"`
	Operations []OperationReport `json:"operations"`
	Summary    SummaryReport     `json:"summary"`
	Duration   string            `json:"duration"`
}

// OperationReport представляет отчёт об операции затирания
type OperationReport struct {
	wipe.Operation
	Verification *verify.Report `json:"verification,omitempty"`
}

// SummaryReport представляет сводную информацию
type SummaryReport struct {
	TotalTargets int     `json:"total_targets"`
	Completed    int     `json:"completed"`
	Cancelled    int     `json:"cancelled"`
	Failed       int     `json:"failed"`
	TotalBytes   int64   `json:"total_bytes"`
	AverageSpeed float64 `json:"average_speed_mbps"`
	SuccessRate  float64 `json:"success_rate"`
}

// GenerateReport генерирует отчёт о запуске
func GenerateReport(operations []wipe.Operation, cfg *config.Config, startTime, endTime time.Time) *Report {
	hostname, _ := os.Hostname()

	report := &Report{
		RunID:      uuid.NewString(),
		Version:    Version,
		Hostname:   hostname,
		Timestamp:  startTime,
		Config:     configToMap(cfg),
		Operations: make([]OperationReport, len(operations)),
		Duration:   endTime.Sub(startTime).String(),
	}

	var totalSpeed float64
	summary := SummaryReport{TotalTargets: len(operations)}

	for i, op := range operations {
		report.Operations[i] = OperationReport{Operation: op}

		switch op.Status {
		case wipe.StatusCompleted:
			summary.Completed++
		case wipe.StatusCancelled:
			summary.Cancelled++
		default:
			summary.Failed++
		}

		summary.TotalBytes += op.BytesWritten
		totalSpeed += op.SpeedMBps
	}

	if len(operations) > 0 {
		summary.AverageSpeed = totalSpeed / float64(len(operations))
		summary.SuccessRate = float64(summary.Completed) / float64(len(operations)) * 100
	}
	report.Summary = summary

	return report
}

// AttachVerification добавляет результат проверки к операции id
func (r *Report) AttachVerification(id string, v *verify.Report) bool {
	for i := range r.Operations {
		if r.Operations[i].ID == id {
			r.Operations[i].Verification = v
			return true
		}
	}
	return false
}

// SaveReport сохраняет отчёт в JSON файл и возвращает его путь.
// При выключенной отчётности ничего не делает.
func SaveReport(report *Report, cfg *config.Config) (string, error) {
	if !cfg.Reporting.Enabled {
		return "", nil
	}

	if err := os.MkdirAll(cfg.Reporting.LocalPath, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create report directory")
	}

	filename := fmt.Sprintf("wipecore_report_%s.json", report.Timestamp.Format("20060102_150405"))
	path := filepath.Join(cfg.Reporting.LocalPath, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal report")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write report")
	}

	return path, nil
}

// configToMap преобразует Config в map для JSON сериализации
func configToMap(cfg *config.Config) map[string]any {
	if cfg == nil {
		return nil
	}
	return map[string]any{
		"wipe": map[string]any{
			"mode":           cfg.Wipe.Mode,
			"passes":         cfg.Wipe.Passes,
			"chunk_size":     cfg.Wipe.ChunkSize,
			"max_speed_mbps": cfg.Wipe.MaxSpeedMBps,
			"verify":         cfg.Wipe.Verify,
			"no_sync":        cfg.Wipe.NoSync,
			"system_disk":    cfg.Wipe.SystemDisk,
		},
		"security": map[string]any{
			"require_admin":        cfg.Security.RequireAdmin,
			"require_confirmation": cfg.Security.RequireConfirmation,
			"excluded_disks":       cfg.Security.ExcludedDisks,
			"protected_paths":      cfg.Security.ProtectedPaths,
		},
		"logging": map[string]any{
			"level":       cfg.Logging.Level,
			"file":        cfg.Logging.File,
			"max_size":    cfg.Logging.MaxSizeMB,
			"max_backups": cfg.Logging.MaxFiles,
		},
		"reporting": map[string]any{
			"enabled":    cfg.Reporting.Enabled,
			"local_path": cfg.Reporting.LocalPath,
			"format":     cfg.Reporting.Format,
		},
	}
}
