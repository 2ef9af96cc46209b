package wipe

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// ThrottledWriter ограничивает скорость записи.
// Каждый Write передаётся в нижележащий writer одним вызовом: запись не
// дробится и не повторяется, короткая запись возвращается как есть.
type ThrottledWriter struct {
	w       io.Writer
	limiter *rate.Limiter
	burst   int
}

// NewThrottledWriter создает writer с лимитом maxSpeedMBps (MiB/s).
// При maxSpeedMBps <= 0 ограничение не применяется.
func NewThrottledWriter(w io.Writer, maxSpeedMBps float64) *ThrottledWriter {
	tw := &ThrottledWriter{w: w}

	bytesPerSec := maxSpeedMBps * 1024 * 1024
	if bytesPerSec >= 1 {
		tw.burst = int(bytesPerSec)
		tw.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), tw.burst)
	}

	return tw
}

// Write ждёт, пока лимитер выдаст len(data) токенов, затем пишет.
func (tw *ThrottledWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	if tw.limiter != nil {
		// WaitN не принимает n больше burst, поэтому ждём порциями
		for remaining := len(data); remaining > 0; {
			n := min(remaining, tw.burst)
			if err := tw.limiter.WaitN(context.Background(), n); err != nil {
				return 0, err
			}
			remaining -= n
		}
	}

	return tw.w.Write(data)
}

// Sync синхронизирует данные на диск, если writer это поддерживает
func (tw *ThrottledWriter) Sync() error {
	if s, ok := tw.w.(Syncer); ok {
		return s.Sync()
	}
	return nil
}
