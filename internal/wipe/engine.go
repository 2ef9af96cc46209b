package wipe

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"wipecore/internal/progress"
)

// DefaultChunkSize is the size of a single write call.
const DefaultChunkSize = 8 * 1024 * 1024

// Target is an open, writable byte sink positioned by Seek. The engine never
// opens or closes it.
type Target interface {
	io.Writer
	io.Seeker
}

// Syncer is implemented by targets that can commit written data to stable
// storage, such as *os.File.
type Syncer interface {
	Sync() error
}

// State is the engine state machine.
type State int

const (
	StateNotStarted State = iota
	StatePassInProgress
	StatePassComplete
	StateFinished
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StatePassInProgress:
		return "PassInProgress"
	case StatePassComplete:
		return "PassComplete"
	case StateFinished:
		return "Finished"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Options конфигурация движка затирания
type Options struct {
	Mode      Mode
	Passes    int
	ChunkSize int

	// Entropy is read for Random passes. Default: crypto/rand.Reader.
	Entropy io.Reader

	// MaxSpeedMBps caps write throughput; 0 means unlimited.
	MaxSpeedMBps float64

	// NoSync skips the Sync call at the end of each pass.
	NoSync bool

	// Progress is called after every chunk written.
	Progress func(progress.Snapshot)
	// Notice receives operator-facing messages such as a pass count upgrade.
	Notice func(string)
	// PassStarted and PassFinished bracket every pass.
	PassStarted  func(pass Pass, passes int)
	PassFinished func(pass Pass, passes int)

	Logger *zap.Logger
	Clock  func() time.Time
}

// Result summarizes a run. It is returned together with the error on failure.
type Result struct {
	Plan            Plan
	State           State
	PassesCompleted int
	BytesWritten    int64
	Duration        time.Duration
	Last            progress.Snapshot
}

// Engine выполняет последовательные проходы затирания над одной целью
type Engine struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a wipe engine.
func NewEngine(opts Options) *Engine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Entropy == nil {
		opts.Entropy = rand.Reader
	}
	if opts.Mode == "" {
		opts.Mode = ModeZeros
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Engine{
		opts:   opts,
		logger: logger,
		now:    now,
	}
}

// Plan returns the pass plan the engine will run.
func (e *Engine) Plan() Plan {
	return NewPlan(e.opts.Mode, e.opts.Passes)
}

// Run overwrites size bytes of target once per planned pass.
//
// ctx is only checked between passes; a pass that has started always runs to
// completion or to its first error.
func (e *Engine) Run(ctx context.Context, target Target, size int64) (*Result, error) {
	plan := e.Plan()
	res := &Result{Plan: plan, State: StateNotStarted}
	start := e.now()
	defer func() {
		res.Duration = e.now().Sub(start)
	}()

	if size < 0 {
		res.State = StateAborted
		return res, &Error{
			Kind: KindInvalidTarget,
			Mode: plan.Mode,
			Err: errors.WithHint(
				errors.Wrapf(ErrInvalidTarget, "length %d", size),
				"the target length must be known before wiping"),
		}
	}

	if plan.Upgraded {
		e.logger.Info("Pass count raised", zap.String("mode", plan.Mode.String()),
			zap.Int("requested", plan.Requested), zap.Int("passes", plan.Len()))
		if e.opts.Notice != nil {
			e.opts.Notice(plan.Notice())
		}
	}

	if size == 0 {
		e.logger.Info("Empty target, nothing to wipe")
		res.State = StateFinished
		return res, nil
	}

	var w io.Writer = target
	if e.opts.MaxSpeedMBps > 0 {
		w = NewThrottledWriter(target, e.opts.MaxSpeedMBps)
	}

	chunk := e.opts.ChunkSize
	if int64(chunk) > size {
		chunk = int(size)
	}
	buf := GetBuffer(chunk)
	defer PutBuffer(buf)

	e.logger.Info("Wipe started",
		zap.String("mode", plan.Mode.String()),
		zap.Int("passes", plan.Len()),
		zap.Int64("size", size),
		zap.Int("chunk_size", chunk))

	for _, pass := range plan.Passes {
		if err := ctx.Err(); err != nil {
			res.State = StateAborted
			e.logger.Warn("Wipe cancelled before pass", zap.Int("pass", pass.Index), zap.Error(err))
			return res, &Error{
				Kind: KindCancelled,
				Pass: pass.Index,
				Mode: plan.Mode,
				Err:  errors.Mark(err, ErrCancelled),
			}
		}

		res.State = StatePassInProgress
		if e.opts.PassStarted != nil {
			e.opts.PassStarted(pass, plan.Len())
		}

		if err := e.runPass(w, target, pass, plan, size, buf, res); err != nil {
			res.State = StateAborted
			e.logger.Error("Wipe aborted", zap.Int("pass", pass.Index), zap.Error(err))
			return res, err
		}

		res.State = StatePassComplete
		res.PassesCompleted++
		if e.opts.PassFinished != nil {
			e.opts.PassFinished(pass, plan.Len())
		}
		e.logger.Info("Pass finished", zap.Int("pass", pass.Index), zap.Int("passes", plan.Len()))
	}

	res.State = StateFinished
	e.logger.Info("Wipe finished", zap.Int("passes", res.PassesCompleted), zap.Int64("bytes", res.BytesWritten))
	return res, nil
}

// runPass пишет один полный проход от смещения 0 до size
func (e *Engine) runPass(w io.Writer, target Target, pass Pass, plan Plan, size int64, buf []byte, res *Result) error {
	fail := func(kind Kind, offset int64, err error) error {
		return &Error{Kind: kind, Pass: pass.Index, Offset: offset, Mode: plan.Mode, Err: err}
	}

	if _, err := target.Seek(0, io.SeekStart); err != nil {
		return fail(KindIO, 0, errors.Wrap(err, "seek to start"))
	}

	e.logger.Debug("Pass started", zap.Int("pass", pass.Index), zap.String("pattern", pass.Pattern.String()))
	tracker := progress.NewTracker(pass.Index, plan.Len(), size, e.now)

	// Константный паттерн заполняем один раз на проход
	if !pass.Pattern.Random {
		if err := pass.Pattern.Fill(buf, nil); err != nil {
			return fail(KindIO, 0, err)
		}
	}

	var written int64
	for written < size {
		n := int64(len(buf))
		if rem := size - written; rem < n {
			n = rem
		}
		b := buf[:n]

		if pass.Pattern.Random {
			if err := pass.Pattern.Fill(b, e.opts.Entropy); err != nil {
				return fail(KindIO, written, err)
			}
		}

		wn, err := w.Write(b)
		if err != nil {
			kind := KindIO
			if errors.Is(err, io.ErrShortWrite) {
				kind = KindShortWrite
			}
			return fail(kind, written, errors.Wrapf(err, "write of %d bytes", n))
		}
		if int64(wn) != n {
			return fail(KindShortWrite, written, errors.Wrapf(io.ErrShortWrite, "wrote %d of %d bytes", wn, n))
		}

		written += n
		res.BytesWritten += n
		res.Last = tracker.Advance(n)
		if e.opts.Progress != nil {
			e.opts.Progress(res.Last)
		}
	}

	if !e.opts.NoSync {
		if s, ok := target.(Syncer); ok {
			if err := s.Sync(); err != nil {
				return fail(KindIO, size, errors.Wrap(err, "sync"))
			}
		}
	}

	return nil
}
