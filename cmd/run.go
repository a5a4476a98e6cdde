package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"webpseq/internal/command"
	"webpseq/internal/frames"
	"webpseq/internal/runner"
	"webpseq/internal/tui"
)

const (
	// exitLaunchFailed follows the shell's status for a command that cannot run.
	exitLaunchFailed = 127
	// exitCancelled is the conventional status for a run stopped by SIGINT.
	exitCancelled = 130
)

func newRunCmd(a *app) *cobra.Command {
	var inspect bool

	c := &cobra.Command{
		Use:   "run [flags]",
		Short: "Build the command, run img2webp and stream its output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.resolveOptions(cmd, false)
			if err != nil {
				return err
			}
			built, err := command.Build(o)
			if err != nil {
				return err
			}
			bin, err := runner.ResolveBinary(a.binary)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if inspect {
				if err := a.printInsights(ctx, built.InputPattern()); err != nil {
					return err
				}
			}

			fmt.Fprintln(a.stderr, runCommandStyle.Render(built.Line(bin)))

			r := a.newRunner(bin)
			run, err := r.Run(ctx, built.Args)
			if err != nil {
				var launchErr *runner.LaunchError
				if errors.As(err, &launchErr) {
					return &ExitError{Code: exitLaunchFailed, Message: "img2webp " + launchErr.Outcome().String(), Err: err}
				}
				return err
			}
			for line := range run.Lines() {
				fmt.Fprintln(a.stdout, line)
			}

			outcome := run.Wait()
			switch {
			case outcome.Success():
				fmt.Fprintln(a.stderr, tui.StatusStyle(true).Render("Wrote "+built.OutputPath))
				return nil
			case outcome.Status == runner.StatusCancelled:
				return &ExitError{Code: exitCancelled, Message: "encoder cancelled"}
			default:
				code := outcome.ExitCode
				if code <= 0 {
					code = 1
				}
				return &ExitError{Code: code, Message: "img2webp " + outcome.String()}
			}
		},
	}
	c.Flags().BoolVar(&inspect, "inspect", false, "inspect the input frames and print warnings before encoding")
	return c
}

// newRunner builds a runner that logs through the command's logger.
func (a *app) newRunner(bin string) *runner.Runner {
	return runner.New(bin, runner.WithLogger(a.logger))
}

// printInsights runs a frame inspection without a progress view and
// prints only the insights.
func (a *app) printInsights(ctx context.Context, pattern string) error {
	paths, err := runner.Match(pattern)
	if err != nil {
		return err
	}
	_, reports, err := frames.Inspect(ctx, paths, nil)
	if err != nil {
		return err
	}
	insights := frames.BuildInsights(reports)
	if len(insights) == 0 {
		return nil
	}
	fmt.Fprintln(a.stderr, tui.RenderInsights(insights))
	return nil
}

var runCommandStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
