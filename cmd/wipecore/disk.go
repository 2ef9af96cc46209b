package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wipecore/internal/cli"
	"wipecore/internal/security"
	"wipecore/internal/system"
)

// resolveSystemDisk определяет системный диск и сообщает, откуда он взят
func resolveSystemDisk(out io.Writer) int {
	idx, source := security.ResolveSystemDisk(cfg.Wipe.SystemDisk, func() (int, error) {
		idx, err := system.DetectSystemDisk()
		if err != nil {
			logger.Warn("System disk auto-detection failed", zap.Error(err))
		}
		return idx, err
	})

	switch source {
	case security.SourceUser:
		fmt.Fprintf(out, "Using user-specified system disk: %s\n", diskLabel(idx))
	case security.SourceDetected:
		fmt.Fprintf(out, "Auto-detected system disk: %s\n", diskLabel(idx))
	default:
		fmt.Fprintf(out, "Could not auto-detect system disk; defaulting to %s.\n", diskLabel(idx))
		fmt.Fprintln(out, "You can override with: --system-disk <N>")
	}

	logger.Info("System disk resolved", zap.Int("index", idx), zap.String("source", source))
	return idx
}

func diskLabel(idx int) string {
	if path, err := system.DevicePath(idx); err == nil {
		return fmt.Sprintf("disk %d (%s)", idx, path)
	}
	return fmt.Sprintf("disk %d", idx)
}

func runListDisks(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	sys := resolveSystemDisk(out)
	maxIndex := cfg.Wipe.MaxDiskIndex

	disks, err := system.ListDisks(maxIndex, sys)
	if err != nil {
		return errors.Wrap(err, "error while listing disks")
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Detected physical disks (0..%d):\n", maxIndex-1)
	if len(disks) == 0 {
		fmt.Fprintf(out, "No physical disks found in range 0..%d.\n", maxIndex-1)
		return nil
	}

	cli.NewPrompter(cmd.InOrStdin(), out).PrintDisks(disks, "(SYSTEM DISK)")
	return nil
}

func runDiskInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 {
		return errors.Newf("invalid disk index: %q", args[0])
	}

	path, err := system.DevicePath(idx)
	if err != nil {
		return errors.Wrapf(err, "error while checking disk %d", idx)
	}
	fmt.Fprintf(out, "Opening physical drive: %s\n", path)

	size, err := system.DiskSize(idx)
	if err != nil {
		return errors.Wrapf(err, "error while checking disk %d", idx)
	}

	fmt.Fprintf(out, "Disk %d size: %s\n", idx, system.SizeFormat(size))
	return nil
}

func runWipeDisk(cmd *cobra.Command, _ []string) error {
	if err := security.RequireAdmin(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sys := resolveSystemDisk(out)
	wipeMode := cfg.WipeMode()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Disk Wipe Mode ===")
	fmt.Fprintf(out, "System disk       : %s\n", diskLabel(sys))
	fmt.Fprintf(out, "Wipe mode         : %s\n", wipeMode.DisplayName())
	fmt.Fprintf(out, "Passes            : %d\n", cfg.Wipe.Passes)
	fmt.Fprintln(out)

	disks, err := system.ListDisks(cfg.Wipe.MaxDiskIndex, sys)
	if err != nil {
		return errors.Wrap(err, "disk wipe failed")
	}
	if len(disks) == 0 {
		return system.ErrNoDisks
	}

	prompter := cli.NewPrompter(cmd.InOrStdin(), out)
	fmt.Fprintln(out, "Available disks:")
	prompter.PrintDisks(disks, "(SYSTEM DISK - PROTECTED)")

	candidates := security.WipeCandidates(disks, cfg)
	if len(candidates) == 0 {
		return errors.New("no non-system disks available to wipe")
	}

	selected, ok, err := prompter.SelectDisk(candidates)
	if err != nil || !ok {
		return err
	}

	// фразу подтверждения нельзя пропустить даже с --yes
	confirmed, err := prompter.ConfirmDisk(selected, sys,
		fmt.Sprintf("Mode:         %s", wipeMode.DisplayName()),
		fmt.Sprintf("Passes:       %d", cfg.Wipe.Passes))
	if err != nil || !confirmed {
		logger.Info("Disk wipe declined", zap.Int("disk", selected.Index))
		return err
	}

	// повторная проверка перед открытием устройства на запись
	if err := security.CheckDisk(selected, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "[*] Opening %s for read/write...\n", selected.Path)
	target, err := system.OpenTarget(selected.Path)
	if err != nil {
		return err
	}
	defer target.Close()

	fmt.Fprintf(out, "[*] Starting wipe: %s (mode: %s, passes: %d)\n", target.Path, wipeMode.DisplayName(), cfg.Wipe.Passes)
	logger.Info("Disk wipe started", zap.Int("disk", selected.Index), zap.String("path", target.Path),
		zap.Int64("size", target.Size))

	if _, err := wipeTarget(out, target); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "[+] Disk wipe completed for %s.\n", target.Path)
	return nil
}
