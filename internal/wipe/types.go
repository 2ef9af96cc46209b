package wipe

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// Status итоговый статус операции
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// TargetKind тип цели затирания
type TargetKind string

const (
	TargetFile   TargetKind = "file"
	TargetDevice TargetKind = "device"
)

// Operation: запись об одной операции затирания для отчёта
type Operation struct {
	ID              string     `json:"id"`
	Target          string     `json:"target"`
	Kind            TargetKind `json:"kind"`
	Mode            Mode       `json:"mode"`
	RequestedPasses int        `json:"requested_passes"`
	Passes          int        `json:"passes"`
	PassesCompleted int        `json:"passes_completed"`
	ChunkSize       int        `json:"chunk_size"`
	SizeBytes       int64      `json:"size_bytes"`
	Status          Status     `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	BytesWritten    int64      `json:"bytes_written"`
	SpeedMBps       float64    `json:"speed_mbps"`
	FailedPass      int        `json:"failed_pass,omitempty"`
	FailedOffset    int64      `json:"failed_offset,omitempty"`
	Error           string     `json:"error,omitempty"`
	Warning         string     `json:"warning,omitempty"`
}

// NewOperation собирает запись из результата Run. res может быть nil, если
// запуск не состоялся.
func NewOperation(target string, kind TargetKind, size int64, opts Options, start time.Time, res *Result, err error) Operation {
	plan := NewPlan(opts.Mode, opts.Passes)
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	op := Operation{
		ID:              fmt.Sprintf("wipe_%d", start.UnixNano()),
		Target:          target,
		Kind:            kind,
		Mode:            plan.Mode,
		RequestedPasses: plan.Requested,
		Passes:          plan.Len(),
		ChunkSize:       chunk,
		SizeBytes:       size,
		Status:          StatusCompleted,
		StartTime:       start,
		Warning:         plan.Notice(),
	}

	if res != nil {
		end := start.Add(res.Duration)
		op.EndTime = &end
		op.PassesCompleted = res.PassesCompleted
		op.BytesWritten = res.BytesWritten
		if secs := res.Duration.Seconds(); secs > 0 {
			op.SpeedMBps = float64(res.BytesWritten) / (1024 * 1024) / secs
		}
	}

	if err != nil {
		op.Status = StatusFailed
		op.Error = err.Error()
		if errors.Is(err, ErrCancelled) {
			op.Status = StatusCancelled
		}
		if we, ok := AsError(err); ok && we.Kind != KindInvalidTarget {
			op.FailedPass = we.Pass
			op.FailedOffset = we.Offset
		}
	}

	return op
}
