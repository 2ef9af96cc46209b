package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wipecore/internal/cli"
	"wipecore/internal/security"
	"wipecore/internal/system"
	"wipecore/internal/wipe"
)

func runFileWipe(cmd *cobra.Command, path string) error {
	if err := security.CheckPath(path, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	target, err := system.OpenTarget(path)
	if errors.Is(err, system.ErrEmptyTarget) {
		fmt.Fprintln(cmd.ErrOrStderr(), "File is empty (0 bytes), nothing to wipe.")
		return nil
	}
	if err != nil {
		return err
	}
	defer target.Close()

	if target.Kind != wipe.TargetFile {
		return errors.WithHint(
			errors.Newf("'%s' is not a regular file", path),
			"use the wipe-disk command for whole disks")
	}

	fmt.Fprintf(out, "Target file : %s\n", target.Path)
	fmt.Fprintf(out, "Size :   %s\n", system.SizeFormat(uint64(target.Size)))
	fmt.Fprintf(out, "Mode :   %s\n", cfg.WipeMode().DisplayName())
	fmt.Fprintf(out, "Passes : %d\n", cfg.Wipe.Passes)

	confirm := cli.NewPrompter(cmd.InOrStdin(), out).Confirmer()
	if assumeYes || !cfg.Security.RequireConfirmation {
		confirm = cli.AlwaysConfirm
	}
	if !confirm(target.Path) {
		logger.Info("File wipe declined", zap.String("target", target.Path))
		return nil
	}

	res, err := wipeTarget(out, target)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "[+] Wipe completed (%d passes).\n", res.PassesCompleted)
	return nil
}
