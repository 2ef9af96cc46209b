package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wipecore/internal/system"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func TestConfirmFile(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"YES\n", true},
		{"yes\n", true},
		{"  Yes  \n", true},
		{"y\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false},
		{"YES", true}, // без перевода строки в конце ввода
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p, out := newTestPrompter(tt.input)

			ok, err := p.ConfirmFile("/tmp/secret.bin")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "/tmp/secret.bin")
			if !tt.want {
				assert.Contains(t, out.String(), "Aborted by user.")
			}
		})
	}
}

func TestConfirmer(t *testing.T) {
	p, _ := newTestPrompter("yes\n")
	assert.True(t, p.Confirmer()("data.bin"))

	p, _ = newTestPrompter("nope\n")
	assert.False(t, p.Confirmer()("data.bin"))

	assert.True(t, AlwaysConfirm("anything"))
}

var testDisks = []system.DiskInfo{
	{Index: 1, Path: `\\.\PhysicalDrive1`, SizeBytes: 500 << 30},
	{Index: 3, Path: `\\.\PhysicalDrive3`, SizeBytes: 64 << 30},
}

func TestSelectDisk(t *testing.T) {
	t.Run("valid index", func(t *testing.T) {
		p, _ := newTestPrompter("3\n")
		disk, ok, err := p.SelectDisk(testDisks)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, disk.Index)
	})

	t.Run("blank cancels", func(t *testing.T) {
		p, out := newTestPrompter("\n")
		_, ok, err := p.SelectDisk(testDisks)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, out.String(), "Aborted by user.")
	})

	t.Run("not a number", func(t *testing.T) {
		p, _ := newTestPrompter("disk1\n")
		_, ok, err := p.SelectDisk(testDisks)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrInvalidSelection))
	})

	t.Run("not a candidate", func(t *testing.T) {
		p, _ := newTestPrompter("0\n")
		_, ok, err := p.SelectDisk(testDisks)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrInvalidSelection))
		assert.Contains(t, err.Error(), "disk 0")
	})
}

func TestConfirmDisk(t *testing.T) {
	disk := testDisks[0]
	assert.Equal(t, "WIPE-DISK-1", ConfirmPhrase(disk.Index))

	tests := []struct {
		input string
		want  bool
	}{
		{"WIPE-DISK-1\n", true},
		{"  WIPE-DISK-1\n", true},
		{"wipe-disk-1\n", false},
		{"WIPE-DISK-3\n", false},
		{"YES\n", false},
		{"", false},
	}

	for _, tt := range tests {
		p, out := newTestPrompter(tt.input)
		ok, err := p.ConfirmDisk(disk, 0, "Mode:         Zeros")
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "input %q", tt.input)

		text := out.String()
		assert.Contains(t, text, "It will NOT touch the system disk (disk 0).")
		assert.Contains(t, text, "Mode:         Zeros")
		if !tt.want {
			assert.Contains(t, text, "confirmation phrase did not match")
		}
	}
}

func TestPrintDisks(t *testing.T) {
	p, out := newTestPrompter("")
	disks := []system.DiskInfo{
		{Index: 0, Path: "/dev/sda", SizeBytes: 1 << 30, IsSystem: true},
		{Index: 1, Path: "/dev/sdb", SizeBytes: 2 << 30},
	}

	p.PrintDisks(disks, "(SYSTEM DISK)")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  [0] /dev/sda - 1.0 GiB"))
	assert.Contains(t, lines[0], "(SYSTEM DISK)")
	assert.Equal(t, "  [1] /dev/sdb - 2.0 GiB", lines[1])
}
