package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"wipecore/internal/progress"
	"wipecore/internal/reporting"
	"wipecore/internal/system"
	"wipecore/internal/verify"
	"wipecore/internal/wipe"
)

// engineOptions собирает параметры движка из конфигурации
func engineOptions() (wipe.Options, error) {
	chunk, err := cfg.ChunkSizeBytes()
	if err != nil {
		return wipe.Options{}, err
	}

	return wipe.Options{
		Mode:         cfg.WipeMode(),
		Passes:       cfg.Wipe.Passes,
		ChunkSize:    chunk,
		MaxSpeedMBps: cfg.Wipe.MaxSpeedMBps,
		NoSync:       cfg.Wipe.NoSync,
		Logger:       logger,
	}, nil
}

// wipeTarget прогоняет движок по открытой цели, при необходимости проверяет
// результат и сохраняет отчёт. Сообщения и прогресс идут в out.
func wipeTarget(out io.Writer, target *system.Target) (*wipe.Result, error) {
	opts, err := engineOptions()
	if err != nil {
		return nil, err
	}

	renderer := progress.NewRenderer(out, logger)
	opts.Progress = renderer.Render
	opts.PassStarted = func(pass wipe.Pass, passes int) {
		fmt.Fprintf(out, "=== Starting pass %d/%d ===\n", pass.Index, passes)
	}
	opts.PassFinished = func(pass wipe.Pass, passes int) {
		renderer.Finish()
		fmt.Fprintf(out, "=== Finished pass %d/%d ===\n", pass.Index, passes)
	}
	opts.Notice = func(msg string) { fmt.Fprintln(out, msg) }

	log := logger.With(zap.String("target", target.Path), zap.String("kind", string(target.Kind)))
	opts.Logger = log

	start := time.Now()
	res, runErr := wipe.NewEngine(opts).Run(sessionCtx, target, target.Size)
	renderer.Finish()

	op := wipe.NewOperation(target.Path, target.Kind, target.Size, opts, start, res, runErr)

	var verification *verify.Report
	if runErr == nil && cfg.Wipe.Verify {
		verification, runErr = verifyTarget(out, target, res.Plan, opts.ChunkSize)
	}

	saveReport(op, verification, start)
	return res, runErr
}

func verifyTarget(out io.Writer, target *system.Target, plan wipe.Plan, bufSize int) (*verify.Report, error) {
	final := plan.Final()
	if final.Random {
		fmt.Fprintln(out, "[!] Verification skipped: random data cannot be read back and compared.")
		logger.Warn("Verification skipped for random pattern")
		return nil, nil
	}

	fmt.Fprintf(out, "[*] Verifying %s (expecting %s)...\n", target.Path, final)
	report, err := verify.Verify(sessionCtx, target, target.Size, final, bufSize)
	if err != nil {
		return report, errors.Wrap(err, "verification failed")
	}

	logger.Info("Verification finished",
		zap.Int64("bytes_checked", report.BytesChecked),
		zap.Int64("mismatches", report.Mismatches),
		zap.Bool("verified", report.Verified))

	if !report.Verified {
		return report, errors.Newf("verification failed: %d bytes differ from %s, first at offset %d",
			report.Mismatches, final, report.FirstMismatch)
	}

	fmt.Fprintf(out, "[+] Verification passed: %s are %s.\n", system.SizeFormat(uint64(report.BytesChecked)), final)
	return report, nil
}

func saveReport(op wipe.Operation, verification *verify.Report, start time.Time) {
	if !cfg.Reporting.Enabled {
		return
	}

	report := reporting.GenerateReport([]wipe.Operation{op}, cfg, start, time.Now())
	if verification != nil {
		report.AttachVerification(op.ID, verification)
	}

	path, err := reporting.SaveReport(report, cfg)
	if err != nil {
		logger.Warn("Failed to save report", zap.Error(err))
		return
	}
	logger.Info("Report saved", zap.String("run_id", report.RunID), zap.String("file", path))
}
