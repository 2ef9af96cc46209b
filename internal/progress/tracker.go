package progress

import (
	"fmt"
	"time"
)

const (
	// MiB is the unit used for reported throughput.
	MiB = 1024 * 1024

	// MinElapsed is the shortest elapsed time a rate is computed for.
	// Anything below is treated as the first observation and reports rate 0.
	MinElapsed = time.Millisecond
)

// Snapshot is a point-in-time view of one pass.
type Snapshot struct {
	Pass   int
	Passes int

	Written int64
	Total   int64
	Elapsed time.Duration

	Percent   float64
	RateMiBps float64

	// ETA is only meaningful when ETAKnown is true.
	ETA      time.Duration
	ETAKnown bool
}

// Observe computes percentage, throughput and ETA for a pass that has written
// written of total bytes in elapsed time.
func Observe(written, total int64, elapsed time.Duration) Snapshot {
	s := Snapshot{
		Written: written,
		Total:   total,
		Elapsed: elapsed,
	}

	switch {
	case total <= 0:
		s.Percent = 100
	default:
		s.Percent = 100 * float64(written) / float64(total)
		if s.Percent < 0 {
			s.Percent = 0
		} else if s.Percent > 100 {
			s.Percent = 100
		}
	}

	if elapsed >= MinElapsed && written > 0 {
		s.RateMiBps = (float64(written) / MiB) / elapsed.Seconds()
	}

	remaining := total - written
	if remaining < 0 {
		remaining = 0
	}

	switch {
	case remaining == 0:
		s.ETAKnown = true
	case s.RateMiBps > 0:
		secs := float64(remaining) / (s.RateMiBps * MiB)
		s.ETA = time.Duration(secs * float64(time.Second))
		s.ETAKnown = true
	}

	return s
}

// Line renders the snapshot as a single status line without line control
// characters.
func (s Snapshot) Line() string {
	eta := "--:--:--"
	if s.ETAKnown {
		eta = FormatETA(s.ETA)
	}
	return fmt.Sprintf("Pass %d/%d:  %6.2f%%  |  %7.2f MB/s  |  ETA %s",
		s.Pass, s.Passes, s.Percent, s.RateMiBps, eta)
}

// Done reports whether the pass has written everything.
func (s Snapshot) Done() bool {
	return s.Percent >= 100
}

// FormatETA formats d as HH:MM:SS. Hours are not capped at 99.
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	sec := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// Tracker holds the mutable progress state of a single pass.
type Tracker struct {
	pass    int
	passes  int
	total   int64
	written int64
	start   time.Time
	now     func() time.Time
}

// NewTracker starts tracking pass of passes over total bytes. now may be nil.
func NewTracker(pass, passes int, total int64, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		pass:   pass,
		passes: passes,
		total:  total,
		start:  now(),
		now:    now,
	}
}

// Advance records n more bytes written and returns the resulting snapshot.
func (t *Tracker) Advance(n int64) Snapshot {
	t.written += n
	return t.Snapshot()
}

// Snapshot returns the current state without advancing.
func (t *Tracker) Snapshot() Snapshot {
	s := Observe(t.written, t.total, t.now().Sub(t.start))
	s.Pass = t.pass
	s.Passes = t.passes
	return s
}

// Written returns the bytes written so far in this pass.
func (t *Tracker) Written() int64 {
	return t.written
}
