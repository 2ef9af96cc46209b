package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"golang.org/x/time/rate"
)

const (
	// DefaultTerminalInterval caps in-place updates at four per second.
	DefaultTerminalInterval = 250 * time.Millisecond

	// DefaultLogInterval is used when progress goes to a log instead of a TTY.
	DefaultLogInterval = 5 * time.Second
)

// Renderer displays pass snapshots.
type Renderer interface {
	// Render may be called after every chunk; implementations throttle.
	Render(s Snapshot)
	// Finish is called once a pass has ended.
	Finish()
}

// NewRenderer выбирает вывод прогресса:
//   - терминал: строка перерисовывается на месте;
//   - лог, если логгер пишет уровень Info (файл или --verbose);
//   - иначе обычные строки в w не чаще DefaultLogInterval.
func NewRenderer(w io.Writer, logger *zap.Logger) Renderer {
	if f, ok := w.(*os.File); ok && f != nil && term.IsTerminal(int(f.Fd())) {
		return NewTerminalRenderer(f, DefaultTerminalInterval)
	}
	if logger != nil && logger.Core().Enabled(zapcore.InfoLevel) {
		return NewLogRenderer(logger, DefaultLogInterval)
	}
	if w != nil {
		return NewLineRenderer(w, DefaultLogInterval)
	}
	return NopRenderer{}
}

// passThrottle пропускает первый снимок прохода и снимок 100% сразу,
// остальные не чаще interval.
type passThrottle struct {
	interval time.Duration
	pass     int
	limiter  *rate.Sometimes
}

func (t *passThrottle) do(s Snapshot, f func()) {
	if t.limiter == nil || s.Pass != t.pass {
		t.pass = s.Pass
		t.limiter = &rate.Sometimes{Interval: t.interval}
	}
	if s.Done() {
		f()
		return
	}
	t.limiter.Do(f)
}

func (t *passThrottle) reset() {
	t.limiter = nil
}

// TerminalRenderer overwrites a single status line in place.
type TerminalRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	throttle passThrottle
	dirty    bool
}

// NewTerminalRenderer creates a renderer writing to out at most once per interval.
func NewTerminalRenderer(out io.Writer, interval time.Duration) *TerminalRenderer {
	if interval <= 0 {
		interval = DefaultTerminalInterval
	}
	return &TerminalRenderer{
		out:      out,
		throttle: passThrottle{interval: interval},
	}
}

func (r *TerminalRenderer) Render(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.throttle.do(s, func() { r.draw(s) })
}

func (r *TerminalRenderer) draw(s Snapshot) {
	fmt.Fprintf(r.out, "\r%s", s.Line())
	r.dirty = true
}

func (r *TerminalRenderer) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dirty {
		fmt.Fprintln(r.out)
		r.dirty = false
	}
	r.throttle.reset()
}

// LogRenderer emits progress as structured log entries, for non-interactive
// output where carriage returns would garble the log.
type LogRenderer struct {
	mu       sync.Mutex
	logger   *zap.Logger
	throttle passThrottle
}

func NewLogRenderer(logger *zap.Logger, interval time.Duration) *LogRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultLogInterval
	}
	return &LogRenderer{
		logger:   logger,
		throttle: passThrottle{interval: interval},
	}
}

func (r *LogRenderer) Render(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.throttle.do(s, func() { r.log(s) })
}

func (r *LogRenderer) log(s Snapshot) {
	fields := []zap.Field{
		zap.Int("pass", s.Pass),
		zap.Int("passes", s.Passes),
		zap.Int64("written", s.Written),
		zap.Int64("total", s.Total),
		zap.String("percent", fmt.Sprintf("%.2f", s.Percent)),
		zap.String("rate_mbps", fmt.Sprintf("%.2f", s.RateMiBps)),
	}
	if s.ETAKnown {
		fields = append(fields, zap.String("eta", FormatETA(s.ETA)))
	}
	r.logger.Info("Wipe progress", fields...)
}

func (r *LogRenderer) Finish() {
	r.mu.Lock()
	r.throttle.reset()
	r.mu.Unlock()
}

// LineRenderer пишет каждую строку прогресса отдельно, без возврата каретки:
// вывод перенаправлен в файл или канал, а логгер Info не пишет.
type LineRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	throttle passThrottle
}

func NewLineRenderer(out io.Writer, interval time.Duration) *LineRenderer {
	if interval <= 0 {
		interval = DefaultLogInterval
	}
	return &LineRenderer{
		out:      out,
		throttle: passThrottle{interval: interval},
	}
}

func (r *LineRenderer) Render(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.throttle.do(s, func() { fmt.Fprintln(r.out, s.Line()) })
}

func (r *LineRenderer) Finish() {
	r.mu.Lock()
	r.throttle.reset()
	r.mu.Unlock()
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) Render(Snapshot) {}
func (NopRenderer) Finish()         {}
