package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func snap(pass int, written, total int64) Snapshot {
	s := Observe(written, total, time.Second)
	s.Pass, s.Passes = pass, 2
	return s
}

func TestTerminalRendererThrottles(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out, time.Hour)

	for i := int64(1); i < 100; i++ {
		r.Render(snap(1, i, 100))
	}
	// только первый снимок прохода, остальные в пределах интервала
	assert.Equal(t, 1, strings.Count(out.String(), "\r"))

	r.Render(snap(1, 100, 100))
	assert.Equal(t, 2, strings.Count(out.String(), "\r"), "completion is always drawn")
	assert.Contains(t, out.String(), "100.00%")

	r.Finish()
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestTerminalRendererNewPassDrawsImmediately(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out, time.Hour)

	r.Render(snap(1, 10, 100))
	r.Render(snap(2, 10, 100))

	assert.Equal(t, 2, strings.Count(out.String(), "\r"))
	assert.Contains(t, out.String(), "Pass 2/2:")
}

func TestTerminalRendererFinishWithoutOutput(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out, 0)

	r.Finish()
	assert.Empty(t, out.String())
}

func TestLogRenderer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewLogRenderer(zap.New(core), time.Hour)

	r.Render(snap(1, 10, 100))
	r.Render(snap(1, 20, 100))
	r.Render(snap(1, 100, 100))
	r.Finish()

	entries := logs.FilterMessage("Wipe progress").All()
	require.Len(t, entries, 2)

	fields := entries[1].ContextMap()
	assert.Equal(t, int64(1), fields["pass"])
	assert.Equal(t, int64(100), fields["written"])
	assert.Equal(t, "100.00", fields["percent"])
	assert.Equal(t, "00:00:00", fields["eta"])
}

func TestNewRendererWithoutTerminal(t *testing.T) {
	var out bytes.Buffer

	// логгер Info не пишет: прогресс идёт строками в out
	r := NewRenderer(&out, zap.New(zapcore.NewNopCore()))
	require.IsType(t, &LineRenderer{}, r)
	r.Render(snap(1, 50, 100))
	assert.Equal(t, snap(1, 50, 100).Line()+"\n", out.String())

	core, _ := observer.New(zap.InfoLevel)
	assert.IsType(t, &LogRenderer{}, NewRenderer(&out, zap.New(core)))

	errorsOnly, _ := observer.New(zap.ErrorLevel)
	assert.IsType(t, &LineRenderer{}, NewRenderer(&out, zap.New(errorsOnly)))

	assert.Equal(t, NopRenderer{}, NewRenderer(nil, nil))
}

func TestLineRenderer(t *testing.T) {
	var out bytes.Buffer
	r := NewLineRenderer(&out, time.Hour)

	for i := int64(1); i <= 100; i++ {
		r.Render(snap(1, i, 100))
	}
	r.Finish()
	r.Render(snap(2, 1, 100))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Pass 1/2:    1.00%"))
	assert.True(t, strings.HasPrefix(lines[1], "Pass 1/2:  100.00%"))
	assert.True(t, strings.HasPrefix(lines[2], "Pass 2/2:"))
	assert.NotContains(t, out.String(), "\r")
}
