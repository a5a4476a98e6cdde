package runner

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveBinaryExplicit(t *testing.T) {
	fake := writeScript(t, "fake-img2webp.sh", "exit 0\n")
	got, err := ResolveBinary(fake)
	require.NoError(t, err)
	require.Equal(t, fake, got)
}

func TestResolveBinaryMissing(t *testing.T) {
	_, err := ResolveBinary(filepath.Join(t.TempDir(), "missing-img2webp"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "img2webp not found")
}

func TestResolveBinaryFromEnv(t *testing.T) {
	fake := writeScript(t, "env-img2webp.sh", "exit 0\n")
	t.Setenv(EnvBinary, fake)
	got, err := ResolveBinary("")
	require.NoError(t, err)
	require.Equal(t, fake, got)
}

func TestResolveBinaryBundledTools(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	t.Setenv(EnvBinary, "")

	dir := t.TempDir()
	tools := filepath.Join(dir, "webp-tools")
	require.NoError(t, os.MkdirAll(tools, 0o755))
	bundled := filepath.Join(tools, BinaryName())
	require.NoError(t, os.WriteFile(bundled, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	origExe, origLook := executable, execLookPath
	defer func() { executable, execLookPath = origExe, origLook }()
	executable = func() (string, error) { return filepath.Join(dir, "webpseq"), nil }
	execLookPath = func(string) (string, error) { return "", errors.New("not on PATH") }

	got, err := ResolveBinary("")
	require.NoError(t, err)
	require.Equal(t, bundled, got)
}

func TestInstallHint(t *testing.T) {
	require.Contains(t, installHint("darwin"), "brew install webp")
	require.Contains(t, installHint("linux"), "apt-get install webp")
	require.Contains(t, installHint("windows"), "PATH")
}
