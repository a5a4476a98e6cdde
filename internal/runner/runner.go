package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var execCommand = exec.Command

const (
	defaultLineBuffer   = 64
	defaultDrainTimeout = 2 * time.Second
	maxHistory          = 1000
)

// Runner supervises at most one encoder process at a time.
type Runner struct {
	binary       string
	logger       *log.Logger
	lineBuffer   int
	drainTimeout time.Duration

	mu      sync.Mutex
	current *Run
}

type Option func(*Runner)

func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLineBuffer sets how many output lines may queue before the reader
// waits for the consumer.
func WithLineBuffer(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.lineBuffer = n
		}
	}
}

// WithDrainTimeout bounds how long output is still read after the
// process exits, for children that leave the pipe open behind them.
func WithDrainTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.drainTimeout = d
		}
	}
}

func New(binary string, opts ...Option) *Runner {
	r := &Runner{
		binary:       binary,
		logger:       log.New(io.Discard),
		lineBuffer:   defaultLineBuffer,
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Binary() string {
	return r.binary
}

// State reports the runner's position in the state machine. A finished
// run keeps its terminal status until the caller observes it through
// Run.Wait or Run.Outcome.
func (r *Runner) State() Status {
	r.mu.Lock()
	cur := r.current
	r.mu.Unlock()
	if cur == nil || cur.observed.Load() {
		return StatusIdle
	}
	return cur.Status()
}

// Run expands the input pattern, creates the output directory and starts
// the encoder with args. Lines must be drained by the caller until the
// channel closes. An unobserved finished run is acknowledged implicitly.
func (r *Runner) Run(ctx context.Context, args []string) (*Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.Status() == StatusRunning {
		return nil, ErrAlreadyRunning
	}
	r.current = nil

	expanded, err := ExpandArgs(args)
	if err != nil {
		r.logger.Warn("input expansion failed", "err", err)
		return nil, err
	}

	out := outputPath(expanded)
	if out != "" {
		if dir := filepath.Dir(out); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output directory: %w", err)
			}
		}
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, &LaunchError{Binary: r.binary, Err: fmt.Errorf("output pipe: %w", err)}
	}

	cmd := execCommand(r.binary, expanded...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		r.logger.Error("encoder launch failed", "binary", r.binary, "err", err)
		return nil, &LaunchError{Binary: r.binary, Err: err}
	}
	_ = pw.Close()

	run := &Run{
		ID:     uuid.NewString(),
		Args:   expanded,
		Output: out,
		lines:  make(chan string, r.lineBuffer),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		proc:   cmd.Process,
		reader: pr,
	}
	run.logger = r.logger.With("run", run.ID)
	run.logger.Info("encoder started", "pid", cmd.Process.Pid, "args", len(expanded), "output", out)
	r.current = run

	pumpDone := make(chan struct{})
	go run.pump(pumpDone)
	go run.reap(cmd, pumpDone, r.drainTimeout)
	go func() {
		select {
		case <-ctx.Done():
			run.Cancel()
		case <-run.done:
		}
	}()

	return run, nil
}

// Cancel terminates the active run, if any.
func (r *Runner) Cancel() {
	r.mu.Lock()
	cur := r.current
	r.mu.Unlock()
	if cur != nil {
		cur.Cancel()
	}
}

// Run is one supervised encoder process.
type Run struct {
	ID     string
	Args   []string
	Output string

	lines  chan string
	done   chan struct{}
	stop   chan struct{}
	proc   *os.Process
	reader *os.File
	logger *log.Logger

	finishOnce sync.Once
	outcome    Outcome
	observed   atomic.Bool
	reading    atomic.Bool

	// exited is set once cmd.Wait returns; cancelled once Cancel takes
	// effect. Whichever is set first decides the outcome.
	stateMu   sync.Mutex
	exited    bool
	cancelled bool

	mu      sync.Mutex
	history []string
}

// Lines delivers combined stdout and stderr lines in arrival order. The
// channel closes once output ends or the run is cancelled.
func (run *Run) Lines() <-chan string {
	return run.lines
}

// Done closes when the run reaches a terminal status.
func (run *Run) Done() <-chan struct{} {
	return run.done
}

// Wait blocks for the terminal status and marks it observed.
func (run *Run) Wait() Outcome {
	<-run.done
	run.observed.Store(true)
	return run.outcome
}

// Outcome returns the terminal status without blocking. ok is false while
// the run is still going.
func (run *Run) Outcome() (Outcome, bool) {
	select {
	case <-run.done:
		run.observed.Store(true)
		return run.outcome, true
	default:
		return Outcome{Status: StatusRunning}, false
	}
}

func (run *Run) Status() Status {
	select {
	case <-run.done:
		return run.outcome.Status
	default:
		return StatusRunning
	}
}

// History returns the most recent lines read, up to maxHistory.
func (run *Run) History() []string {
	run.mu.Lock()
	defer run.mu.Unlock()
	return append([]string(nil), run.history...)
}

// Cancel asks the process to terminate and settles the run as cancelled
// without waiting for its exit code. Once the process has exited it does
// nothing: the exit code stands and the remaining output is still
// delivered.
func (run *Run) Cancel() {
	run.stateMu.Lock()
	if run.exited || run.cancelled {
		run.stateMu.Unlock()
		return
	}
	run.cancelled = true
	run.stateMu.Unlock()

	run.finish(Outcome{Status: StatusCancelled})
	close(run.stop)
	if err := terminate(run.proc); err != nil && !errors.Is(err, os.ErrProcessDone) {
		run.logger.Warn("terminate failed", "err", err)
	}
	_ = run.reader.Close()
	run.logger.Info("run cancelled")
}

func (run *Run) finish(o Outcome) {
	run.finishOnce.Do(func() {
		run.outcome = o
		close(run.done)
	})
}

func (run *Run) pump(done chan<- struct{}) {
	defer close(done)
	defer close(run.lines)

	sc := bufio.NewScanner(run.reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		run.reading.Store(true)
		ok := sc.Scan()
		run.reading.Store(false)
		if !ok {
			return
		}
		line := sc.Text()
		run.mu.Lock()
		run.history = append(run.history, line)
		if len(run.history) > maxHistory {
			run.history = run.history[len(run.history)-maxHistory:]
		}
		run.mu.Unlock()
		select {
		case run.lines <- line:
		case <-run.stop:
			return
		}
	}
}

func (run *Run) reap(cmd *exec.Cmd, pumpDone <-chan struct{}, drain time.Duration) {
	err := cmd.Wait()
	run.stateMu.Lock()
	run.exited = true
	run.stateMu.Unlock()

	// A reader still idle on an empty pipe after the process exited is
	// waiting on a descendant that inherited the write end.
	ticker := time.NewTicker(drain)
	defer ticker.Stop()
waitPump:
	for {
		select {
		case <-pumpDone:
			break waitPump
		case <-ticker.C:
			if run.reading.Load() {
				_ = run.reader.Close()
				<-pumpDone
				break waitPump
			}
		}
	}
	_ = run.reader.Close()

	code := 0
	var outcomeErr error
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
			outcomeErr = err
		}
	}

	run.stateMu.Lock()
	cancelled := run.cancelled
	run.stateMu.Unlock()
	if cancelled {
		run.logger.Debug("cancelled encoder reaped", "code", code)
		return
	}
	run.logger.Info("encoder exited", "code", code)
	run.finish(Outcome{Status: StatusCompleted, ExitCode: code, Err: outcomeErr})
}

func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return p.Kill()
	}
	return p.Signal(syscall.SIGTERM)
}
