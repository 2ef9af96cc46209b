package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wipecore/internal/config"
	"wipecore/internal/logging"
	"wipecore/internal/reporting"
	"wipecore/internal/system"
	"wipecore/internal/wipe"
)

const (
	AppName = "WipeCore"

	// Exit codes
	EXIT_SUCCESS     = 0
	EXIT_ERROR       = 1
	EXIT_INTERRUPTED = 130
)

var (
	cfg    *config.Config
	logger *zap.Logger

	verbose     bool
	configPath  string
	profile     string
	mode        string
	passes      int
	chunkSize   string
	maxSpeed    float64
	systemDisk  int
	assumeYes   bool
	verifyAfter bool
	noSync      bool
	sessionCtx  context.Context
	cancelWipe  context.CancelFunc
	stopSignals func()
)

// CLI команды
var rootCmd = &cobra.Command{
	Use:     "wipecore [file]",
	Short:   "WipeCore - overwrite files and whole disks",
	Long:    "Overwrites a file or a non-system physical disk with zeros, random data or alternating 0x00/0xFF passes.",
	Version: reporting.Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runFileWipe(cmd, args[0])
	},
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var wipeCmd = &cobra.Command{
	Use:   "wipe <file>",
	Short: "Overwrite a single file in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileWipe(cmd, args[0])
	},
}

var disksCmd = &cobra.Command{
	Use:   "disks",
	Short: "List detected physical disks",
	Args:  cobra.NoArgs,
	RunE:  runListDisks,
}

var diskInfoCmd = &cobra.Command{
	Use:   "disk-info <N>",
	Short: "Show the size of physical disk N",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiskInfo,
}

var wipeDiskCmd = &cobra.Command{
	Use:   "wipe-disk",
	Short: "Interactively wipe a whole non-system disk",
	Args:  cobra.NoArgs,
	RunE:  runWipeDisk,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config <path>",
	Short: "Write the effective configuration (defaults, profile and flags) to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(cfg, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[+] Configuration written to %s\n", args[0])
		return nil
	},
}

func init() {
	modes := make([]string, 0, len(wipe.Modes()))
	for _, m := range wipe.Modes() {
		modes = append(modes, m.String())
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	flags.StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration")
	flags.StringVar(&profile, "profile", "", "Performance profile ("+strings.Join(config.ProfileNames(), "/")+")")
	flags.StringVar(&mode, "mode", string(wipe.ModeZeros), "Wipe mode ("+strings.Join(modes, "/")+")")
	flags.IntVarP(&passes, "passes", "p", 1, "Number of overwrite passes")
	flags.StringVar(&chunkSize, "chunk-size", "8MiB", "Size of a single write (e.g. 4MiB, 64MiB)")
	flags.Float64Var(&maxSpeed, "max-speed", 0, "Write speed limit in MB/s (0 = unlimited)")
	flags.IntVar(&systemDisk, "system-disk", config.AutoSystemDisk, "System disk index (overrides auto-detection)")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "Skip the file wipe confirmation")
	flags.BoolVar(&verifyAfter, "verify", false, "Read the target back after wiping")
	flags.BoolVar(&noSync, "no-sync", false, "Do not flush to stable storage after each pass")

	rootCmd.AddCommand(wipeCmd, disksCmd, diskInfoCmd, wipeDiskCmd, initConfigCmd)
}

// setup загружает конфигурацию, применяет профиль и флаги, создаёт логгер
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	if profile != "" {
		if err := config.ApplyProfile(cfg, profile); err != nil {
			return err
		}
	}

	// флаги переопределяют конфигурацию только если заданы явно
	f := cmd.Flags()
	if f.Changed("mode") {
		cfg.Wipe.Mode = mode
	}
	if f.Changed("passes") {
		cfg.Wipe.Passes = passes
	}
	if f.Changed("chunk-size") {
		cfg.Wipe.ChunkSize = chunkSize
	}
	if f.Changed("max-speed") {
		cfg.Wipe.MaxSpeedMBps = maxSpeed
	}
	if f.Changed("system-disk") {
		cfg.Wipe.SystemDisk = systemDisk
	}
	if f.Changed("verify") {
		cfg.Wipe.Verify = verifyAfter
	}
	if f.Changed("no-sync") {
		cfg.Wipe.NoSync = noSync
	}

	if err := config.Validate(cfg); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger, err = logging.New(cfg, verbose)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	if profile != "" {
		logger.Info("Profile applied", zap.String("profile", profile))
	}
	logger.Debug("Starting", zap.String("app", AppName), zap.String("version", reporting.Version),
		zap.String("command", cmd.Name()))

	sessionCtx, cancelWipe = context.WithCancel(context.Background())
	stopSignals = setupSignalHandling(cancelWipe)
	return nil
}

// setupSignalHandling: первый сигнал останавливает затирание на границе
// прохода, второй завершает процесс немедленно.
func setupSignalHandling(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("Signal received, stopping after the current pass", zap.String("signal", sig.String()))
			fmt.Fprintf(os.Stderr, "\n[INFO] Received %s, stopping after the current pass (press Ctrl+C again to abort now)...\n", sig)
			cancel()
		case <-done:
			return
		}

		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[WARN] Aborted. The target is only partially overwritten.")
			os.Exit(EXIT_INTERRUPTED)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// exitCode переводит ошибку в код возврата
func exitCode(err error) int {
	switch {
	case err == nil:
		return EXIT_SUCCESS
	case errors.Is(err, wipe.ErrCancelled):
		return EXIT_INTERRUPTED
	default:
		return EXIT_ERROR
	}
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	hint := errors.FlattenHints(err)
	if hint == "" {
		hint = system.Hint(err)
	}
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
}

func main() {
	err := rootCmd.Execute()

	if stopSignals != nil {
		stopSignals()
	}
	if cancelWipe != nil {
		cancelWipe()
	}
	if logger != nil {
		if err != nil {
			// ошибку оператору печатает printError, в консоль лог её не дублирует
			logger.Warn("Command failed", zap.Error(err))
		}
		_ = logger.Sync()
	}

	if err != nil {
		printError(err)
	}
	os.Exit(exitCode(err))
}
