package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wipecore/internal/config"
	"wipecore/internal/verify"
	"wipecore/internal/wipe"
)

func testOperations() []wipe.Operation {
	return []wipe.Operation{
		{ID: "wipe_1", Target: "a.bin", Status: wipe.StatusCompleted, BytesWritten: 100, SpeedMBps: 10},
		{ID: "wipe_2", Target: "b.bin", Status: wipe.StatusCompleted, BytesWritten: 300, SpeedMBps: 30},
		{ID: "wipe_3", Target: "c.bin", Status: wipe.StatusFailed, BytesWritten: 50, SpeedMBps: 5, Error: "boom"},
		{ID: "wipe_4", Target: "d.bin", Status: wipe.StatusCancelled, BytesWritten: 0},
	}
}

func TestGenerateReport(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	report := GenerateReport(testOperations(), config.Default(), start, end)

	_, err := uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, Version, report.Version)
	assert.Equal(t, "1m30s", report.Duration)
	assert.Equal(t, start, report.Timestamp)
	require.Len(t, report.Operations, 4)

	s := report.Summary
	assert.Equal(t, 4, s.TotalTargets)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, int64(450), s.TotalBytes)
	assert.InDelta(t, 11.25, s.AverageSpeed, 1e-9)
	assert.InDelta(t, 50.0, s.SuccessRate, 1e-9)
}

func TestGenerateReportEmpty(t *testing.T) {
	now := time.Now()
	report := GenerateReport(nil, nil, now, now)

	assert.Empty(t, report.Operations)
	assert.Nil(t, report.Config)
	assert.Zero(t, report.Summary.SuccessRate)
}

func TestAttachVerification(t *testing.T) {
	now := time.Now()
	report := GenerateReport(testOperations(), nil, now, now)
	v := &verify.Report{Pattern: "0x00", Verified: true, FirstMismatch: -1}

	assert.True(t, report.AttachVerification("wipe_2", v))
	assert.Same(t, v, report.Operations[1].Verification)
	assert.Nil(t, report.Operations[0].Verification)

	assert.False(t, report.AttachVerification("wipe_missing", v))
}

func TestSaveReportDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Reporting.LocalPath = filepath.Join(t.TempDir(), "reports")

	path, err := SaveReport(GenerateReport(nil, cfg, time.Now(), time.Now()), cfg)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoDirExists(t, cfg.Reporting.LocalPath)
}

func TestSaveReport(t *testing.T) {
	cfg := config.Default()
	cfg.Reporting.Enabled = true
	cfg.Reporting.LocalPath = filepath.Join(t.TempDir(), "reports")

	start := time.Date(2024, 3, 1, 10, 4, 5, 0, time.UTC)
	report := GenerateReport(testOperations(), cfg, start, start.Add(time.Minute))
	report.AttachVerification("wipe_1", &verify.Report{Pattern: "0x00", Verified: true, FirstMismatch: -1})

	path, err := SaveReport(report, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Reporting.LocalPath, "wipecore_report_20240301_100405.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded["run_id"])

	ops := decoded["operations"].([]any)
	require.Len(t, ops, 4)
	first := ops[0].(map[string]any)
	// поля операции встраиваются на верхний уровень
	assert.Equal(t, "a.bin", first["target"])
	assert.Equal(t, "COMPLETED", first["status"])
	assert.Contains(t, first, "verification")

	wipeCfg := decoded["config"].(map[string]any)["wipe"].(map[string]any)
	assert.Equal(t, "zeros", wipeCfg["mode"])
}
