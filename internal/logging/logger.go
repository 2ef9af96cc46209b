package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"wipecore/internal/config"
)

// New создаёт логгер по секции logging:
//   - файл (с ротацией), если задан logging.file;
//   - консоль (stderr) при verbose, иначе в консоль попадают только ошибки.
func New(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	return newLogger(cfg, verbose, os.Stderr)
}

// Nop возвращает логгер, который ничего не пишет
func Nop() *zap.Logger {
	return zap.NewNop()
}

// ParseLevel переводит DEBUG|INFO|WARN|ERROR в уровень zap
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newLogger(cfg *config.Config, verbose bool, console io.Writer) (*zap.Logger, error) {
	level := ParseLevel(cfg.Logging.Level)

	consoleLevel := zapcore.ErrorLevel
	if verbose {
		consoleLevel = level
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(console)),
			consoleLevel,
		),
	}

	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			// без файла продолжаем писать в консоль
			fmt.Fprintf(console, "[WARN] could not create log directory for %s: %v\n", cfg.Logging.File, err)
		} else {
			cores = append(cores, zapcore.NewCore(
				fileEncoder(cfg.Logging.Structured),
				zapcore.AddSync(&lumberjack.Logger{
					Filename:   cfg.Logging.File,
					MaxSize:    cfg.Logging.MaxSizeMB,
					MaxBackups: cfg.Logging.MaxFiles,
					MaxAge:     cfg.Logging.MaxAgeDays,
				}),
				level,
			))
		}
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = ""
	// стек пишется только в файл, оператору хватает сообщения
	cfg.StacktraceKey = ""
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func fileEncoder(structured bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if structured {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}
