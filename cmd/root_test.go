package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"webpseq/internal/command"
	"webpseq/internal/logging"
	"webpseq/internal/options"
	"webpseq/internal/runner"
)

// execute runs the CLI with an isolated per-user config directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(runner.EnvBinary, "")

	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake encoder is a shell script")
	}
	path := filepath.Join(t.TempDir(), "img2webp.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestCommandPrintsLineAndOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	stdout, _, err := execute(t, "command", "--input-dir", "/frames", "--output-dir", out, "--img2webp", "/opt/none/img2webp")
	require.NoError(t, err)
	require.Contains(t, stdout, "/opt/none/img2webp -v -d 100 -lossless -q 75.0 -m 4 -noexact")
	require.Contains(t, stdout, "output: "+filepath.Join(out, "output_d100_loss_m4.webp"))
}

func TestCommandArgsMatchBuild(t *testing.T) {
	stdout, _, err := execute(t, "command", "--args",
		"--input-dir", "/frames", "--output-dir", "/anim", "--prefix", "walk",
		"--glob", "*.png", "--kmax", "5", "--mixed", "--lossless=false", "--quality", "75.6", "--loop", "2")
	require.NoError(t, err)

	o := options.DefaultsIn("/frames")
	o.OutputDir = "/anim"
	o.OutputPrefix = "walk"
	o.GlobPattern = "*.png"
	o.KMax = 5
	o.Mixed = true
	o.Lossless = false
	o.Quality = 75.6
	o.Loop = 2
	want, err := command.Build(o)
	require.NoError(t, err)

	require.Equal(t, want.Args, strings.Split(strings.TrimSpace(stdout), "\n"))
	require.Equal(t, filepath.Join("/anim", "walk_kmax5_mixed_loop2_d100_q75_m4.webp"), want.OutputPath)
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "webpseq.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("kmax = 7\nquality = 50.0\nlossless = false\n"), 0o644))

	stdout, _, err := execute(t, "command", "--args", "--config", cfg,
		"--input-dir", "/f", "--output-dir", "/o", "--kmax", "9")
	require.NoError(t, err)

	args := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Contains(t, args, "-lossy")
	require.Contains(t, strings.Join(args, " "), "-kmax 9")
	require.Contains(t, strings.Join(args, " "), "-q 50.0")
}

func TestOutOfRangeRejectedUnlessClamped(t *testing.T) {
	_, _, err := execute(t, "command", "--args", "--input-dir", "/f", "--output-dir", "/o", "--method", "9")
	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.ErrorIs(t, err, options.ErrInvalidOption)

	stdout, _, err := execute(t, "command", "--args", "--input-dir", "/f", "--output-dir", "/o", "--method", "9", "--clamp")
	require.NoError(t, err)
	require.Contains(t, stdout, "-m\n6\n")
}

func TestExplicitMissingConfigFails(t *testing.T) {
	_, _, err := execute(t, "command", "--config", filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigSaveShowAndPath(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nested", "webpseq.json")

	stdout, _, err := execute(t, "config", "save", "--config", cfg, "--duration", "40", "--input-dir", "/f")
	require.NoError(t, err)
	require.Contains(t, stdout, "Saved "+cfg)

	stdout, _, err = execute(t, "config", "show", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, stdout, `"duration": 40`)
	require.Contains(t, stdout, `"input_dir": "/f"`)

	stdout, _, err = execute(t, "config", "show", "--config", cfg, "--format", "toml")
	require.NoError(t, err)
	require.Contains(t, stdout, "duration = 40")

	stdout, _, err = execute(t, "config", "path", "--config", cfg)
	require.NoError(t, err)
	require.Equal(t, cfg+"\n", stdout)
}

func TestConfigDefaultPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on linux")
	}
	dir := t.TempDir()
	stdout := bytes.NewBuffer(nil)
	t.Setenv("XDG_CONFIG_HOME", dir)
	root := NewRootCmd(stdout, bytes.NewBuffer(nil))
	root.SetArgs([]string{"config", "path"})
	require.NoError(t, root.Execute())
	require.Equal(t, filepath.Join(dir, "webpseq", "config.json")+"\n", stdout.String())
}

func TestRunStreamsOutputAndWritesStatus(t *testing.T) {
	fake := writeScript(t, "echo 'frame 1 of 2'\necho 'frame 2 of 2'\n")
	in := filepath.Join(t.TempDir(), "in")
	writePNG(t, filepath.Join(in, "a.png"), 2, 2)
	out := filepath.Join(t.TempDir(), "out")

	stdout, stderr, err := execute(t, "run", "--img2webp", fake, "--input-dir", in, "--output-dir", out)
	require.NoError(t, err)
	require.Equal(t, "frame 1 of 2\nframe 2 of 2\n", stdout)
	require.Contains(t, stderr, "Wrote "+filepath.Join(out, "output_d100_loss_m4.webp"))

	st, err := os.Stat(out)
	require.NoError(t, err)
	require.True(t, st.IsDir())
}

func TestRunMirrorsEncoderExitCode(t *testing.T) {
	fake := writeScript(t, "echo 'cannot decode frame' 1>&2\nexit 3\n")
	in := filepath.Join(t.TempDir(), "in")
	writePNG(t, filepath.Join(in, "a.png"), 2, 2)

	stdout, _, err := execute(t, "run", "--img2webp", fake, "--input-dir", in, "--output-dir", t.TempDir())
	require.Contains(t, stdout, "cannot decode frame")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	require.Equal(t, 3, exitErr.Code)
}

func TestRunCancelledExits130(t *testing.T) {
	fake := writeScript(t, "echo started\nsleep 5\n")
	in := filepath.Join(t.TempDir(), "in")
	writePNG(t, filepath.Join(in, "a.png"), 2, 2)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, _, err := executeContext(t, ctx, "run", "--img2webp", fake, "--input-dir", in, "--output-dir", t.TempDir())
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	require.Equal(t, 130, exitErr.Code)
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestRunLaunchFailureExits127(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "img2webp.sh")
	if runtime.GOOS == "windows" {
		t.Skip("fake encoder is a shell script")
	}
	require.NoError(t, os.WriteFile(broken, []byte("#!/no/such/interpreter\n"), 0o755))
	in := filepath.Join(t.TempDir(), "in")
	writePNG(t, filepath.Join(in, "a.png"), 2, 2)

	_, _, err := execute(t, "run", "--img2webp", broken, "--input-dir", in, "--output-dir", t.TempDir())
	require.ErrorIs(t, err, runner.ErrLaunchFailed)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	require.Equal(t, 127, exitErr.Code)
	require.Contains(t, exitErr.Message, "launch failed")
}

func TestRunnerLogsThroughCommandLogger(t *testing.T) {
	fake := writeScript(t, "exit 0\n")
	var logs bytes.Buffer
	logger, err := logging.New(&logs, "debug", "logfmt")
	require.NoError(t, err)
	a := &app{logger: logger}

	run, err := a.newRunner(fake).Run(context.Background(), nil)
	require.NoError(t, err)
	for range run.Lines() {
	}
	require.True(t, run.Wait().Success())
	require.Contains(t, logs.String(), "encoder started")
	require.Contains(t, logs.String(), "encoder exited")
}

func TestHelpShowsOptionRanges(t *testing.T) {
	stdout, _, err := execute(t, "command", "--help")
	require.NoError(t, err)
	require.Contains(t, stdout, "(0-1000)")
}

func TestRunWithoutInputsDoesNotLaunch(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "launched")
	fake := writeScript(t, "touch '"+marker+"'\n")

	_, _, err := execute(t, "run", "--img2webp", fake,
		"--input-dir", filepath.Join(t.TempDir(), "empty"), "--glob", "*.png", "--output-dir", t.TempDir())
	require.ErrorIs(t, err, runner.ErrNoInputFiles)
	_, statErr := os.Stat(marker)
	require.True(t, os.IsNotExist(statErr))
}

func TestRunInspectPrintsInsights(t *testing.T) {
	fake := writeScript(t, "exit 0\n")
	in := filepath.Join(t.TempDir(), "in")
	writePNG(t, filepath.Join(in, "a.png"), 4, 4)
	writePNG(t, filepath.Join(in, "b.png"), 4, 4)
	writePNG(t, filepath.Join(in, "c.png"), 8, 8)

	_, stderr, err := execute(t, "run", "--inspect", "--img2webp", fake, "--input-dir", in, "--output-dir", t.TempDir())
	require.NoError(t, err)
	require.Contains(t, stderr, "1 of 3 frames differ from 4x4")
}

func TestFramesReportsEveryFrame(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in")
	writePNG(t, filepath.Join(in, "001.png"), 4, 4)
	writePNG(t, filepath.Join(in, "002.png"), 6, 4)
	require.NoError(t, os.WriteFile(filepath.Join(in, "003.png"), []byte("truncated"), 0o644))

	stdout, _, err := execute(t, "frames", "--input-dir", in, "--glob", "*.png")
	require.NoError(t, err)
	require.Contains(t, stdout, "001.png")
	require.Contains(t, stdout, "png 6x4")
	require.Contains(t, stdout, "Frames matched")
	require.Contains(t, stdout, "Unreadable:")
	require.Contains(t, stdout, "Dimensions:")
}

func TestFramesWithoutMatches(t *testing.T) {
	_, _, err := execute(t, "frames", "--input-dir", t.TempDir(), "--glob", "*.png")
	require.ErrorIs(t, err, runner.ErrNoInputFiles)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, versionText()+"\n", stdout)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "version", "--log-level", "chatty")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
}
