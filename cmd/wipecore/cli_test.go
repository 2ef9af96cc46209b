package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wipecore/internal/config"
	"wipecore/internal/security"
	"wipecore/internal/system"
)

var persistentFlagNames = []string{
	"verbose", "config", "profile", "mode", "passes", "chunk-size",
	"max-speed", "system-disk", "yes", "verify", "no-sync",
}

// execute запускает rootCmd с чистыми флагами и возвращает stdout и stderr
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	for _, name := range persistentFlagNames {
		f := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)

	err := rootCmd.Execute()

	if stopSignals != nil {
		stopSignals()
		stopSignals = nil
	}
	if cancelWipe != nil {
		cancelWipe()
	}
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wipecore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func writeSecret(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secret.bin")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xAB}, size), 0600))
	return path
}

func TestFileWipeWithYes(t *testing.T) {
	cfgPath := writeConfig(t, `
wipe:
  mode: secureflip
  passes: 2
  chunk_size: 64KiB
`)
	secret := writeSecret(t, 200_000)

	// --mode и --passes перекрывают файл конфигурации
	out, _, err := execute(t, "", "wipe", secret, "--config", cfgPath, "--yes", "--mode", "zeros", "--passes", "1")
	require.NoError(t, err)
	assert.Equal(t, EXIT_SUCCESS, exitCode(err))

	data, err := os.ReadFile(secret)
	require.NoError(t, err)
	require.Len(t, data, 200_000)
	assert.Equal(t, bytes.Repeat([]byte{0x00}, 200_000), data)

	assert.Contains(t, out, "Mode :   Zeros")
	assert.Contains(t, out, "=== Starting pass 1/1 ===")
	assert.Contains(t, out, "Pass 1/1:  100.00%")
	assert.Contains(t, out, "=== Finished pass 1/1 ===")
	assert.Contains(t, out, "[+] Wipe completed (1 passes).")
	assert.NotContains(t, out, "SecureFlip")
	assert.NotContains(t, out, "\r")
}

func TestFileWipeSecureFlipFromConfig(t *testing.T) {
	cfgPath := writeConfig(t, "wipe:\n  mode: secureflip\n")
	secret := writeSecret(t, 4096)

	out, _, err := execute(t, "", secret, "--config", cfgPath, "--yes")
	require.NoError(t, err)

	data, err := os.ReadFile(secret)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 4096), data)
	assert.Contains(t, out, "As you are using 'SecureFlip', passes changed from 1 to 2")
	assert.Contains(t, out, "=== Finished pass 2/2 ===")
	assert.Contains(t, out, "[+] Wipe completed (2 passes).")
}

func TestFileWipeDeclined(t *testing.T) {
	secret := writeSecret(t, 1024)

	out, _, err := execute(t, "no\n", "wipe", secret, "--config", writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "Type 'YES' to continue:")
	assert.Contains(t, out, "Aborted by user.")

	data, err := os.ReadFile(secret)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xAB}, 1024), data)
}

func TestFileWipeEmptyFile(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0600))

	out, errOut, err := execute(t, "", "wipe", empty, "--yes")
	require.NoError(t, err)
	assert.Equal(t, EXIT_SUCCESS, exitCode(err))
	assert.Contains(t, errOut, "File is empty (0 bytes), nothing to wipe.")
	assert.NotContains(t, out, "Wipe completed")
}

func TestFileWipeRejectsDirectory(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "", "wipe", dir, "--yes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, system.ErrNotRegular))
	assert.Equal(t, EXIT_ERROR, exitCode(err))
}

func TestFileWipeRejectsProtectedPath(t *testing.T) {
	secret := writeSecret(t, 512)
	cfgPath := writeConfig(t, "security:\n  protected_paths: ["+filepath.Dir(secret)+"]\n")

	_, _, err := execute(t, "", "wipe", secret, "--config", cfgPath, "--yes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, security.ErrProtectedPath))

	data, err := os.ReadFile(secret)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xAB}, 512), data)
}

func TestInvalidChunkSizeFlag(t *testing.T) {
	secret := writeSecret(t, 512)

	_, _, err := execute(t, "", "wipe", secret, "--yes", "--chunk-size", "4MB")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple of 512")
}

func TestInitConfigAppliesProfileAndFlags(t *testing.T) {
	cfgPath := writeConfig(t, `
wipe:
  mode: random
  passes: 5
  chunk_size: 8MiB
  max_speed_mbps: 200
`)
	outPath := filepath.Join(t.TempDir(), "effective.yaml")

	out, _, err := execute(t, "", "init-config", outPath,
		"--config", cfgPath, "--profile", "safe", "--passes", "3", "--max-speed", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to")

	saved, err := config.Load(outPath)
	require.NoError(t, err)

	assert.Equal(t, "random", saved.Wipe.Mode, "unset flag keeps the file value")
	assert.Equal(t, 3, saved.Wipe.Passes, "explicit flag wins over the file")
	assert.Equal(t, "4MiB", saved.Wipe.ChunkSize, "profile wins over the file")
	assert.Equal(t, 10.0, saved.Wipe.MaxSpeedMBps, "explicit flag wins over the profile")
}

func TestUnknownProfile(t *testing.T) {
	_, _, err := execute(t, "", "init-config", filepath.Join(t.TempDir(), "x.yaml"), "--profile", "turbo")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "balanced, fast, safe")
}
