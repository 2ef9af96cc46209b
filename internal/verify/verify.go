// Package verify reads a wiped target back and checks it holds the fill byte
// of the final pass.
package verify

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"wipecore/internal/wipe"
)

// ErrNotVerifiable is returned for random patterns: there is nothing to compare
// against.
var ErrNotVerifiable = errors.New("pattern cannot be verified")

// DefaultBufferSize is used when Verify is given bufSize <= 0.
const DefaultBufferSize = 4 * 1024 * 1024

// Report содержит результаты проверки
type Report struct {
	Pattern       string        `json:"pattern"`
	SizeBytes     int64         `json:"size_bytes"`
	BytesChecked  int64         `json:"bytes_checked"`
	Mismatches    int64         `json:"mismatches"`
	FirstMismatch int64         `json:"first_mismatch"` // -1 если расхождений нет
	Verified      bool          `json:"verified"`
	Duration      time.Duration `json:"duration"`
}

// Verify reads size bytes from the start of r and counts bytes that differ
// from pattern. ctx is checked between reads.
func Verify(ctx context.Context, r io.ReadSeeker, size int64, pattern wipe.Pattern, bufSize int) (*Report, error) {
	if pattern.Random {
		return nil, errors.WithHint(ErrNotVerifiable,
			"read-back verification needs a zeros or secureflip wipe")
	}
	if size < 0 {
		return nil, errors.Wrapf(wipe.ErrInvalidTarget, "length %d", size)
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	start := time.Now()
	report := &Report{
		Pattern:       pattern.String(),
		SizeBytes:     size,
		FirstMismatch: -1,
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to start")
	}

	if int64(bufSize) > size {
		bufSize = int(size)
	}
	buf := wipe.GetBuffer(bufSize)
	defer wipe.PutBuffer(buf)

	for report.BytesChecked < size {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrapf(err, "verification stopped at offset %d", report.BytesChecked)
		}

		n := int64(len(buf))
		if rem := size - report.BytesChecked; rem < n {
			n = rem
		}

		if _, err := io.ReadFull(r, buf[:n]); err != nil {
			return report, errors.Wrapf(err, "read at offset %d", report.BytesChecked)
		}

		for i, b := range buf[:n] {
			if b != pattern.Byte {
				if report.FirstMismatch < 0 {
					report.FirstMismatch = report.BytesChecked + int64(i)
				}
				report.Mismatches++
			}
		}
		report.BytesChecked += n
	}

	report.Verified = report.Mismatches == 0
	report.Duration = time.Since(start)
	return report, nil
}
