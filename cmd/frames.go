package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"webpseq/internal/command"
	"webpseq/internal/frames"
	"webpseq/internal/runner"
	"webpseq/internal/tui"
)

func newFramesCmd(a *app) *cobra.Command {
	var quiet bool

	c := &cobra.Command{
		Use:   "frames [flags]",
		Short: "Inspect the frames the input pattern matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.resolveOptions(cmd, false)
			if err != nil {
				return err
			}
			pattern := command.InputPattern(o)
			paths, err := runner.Match(pattern)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var updates chan frames.ProgressUpdate
			uiDone := make(chan struct{})
			if isTerminal(a.stderr) {
				updates = make(chan frames.ProgressUpdate, 64)
				program := tea.NewProgram(tui.NewProgressModel(updates), tea.WithOutput(a.stderr))
				go func() {
					_, _ = program.Run()
					// the user may quit the view before the inspection ends
					cancel()
					close(uiDone)
				}()
			} else {
				close(uiDone)
			}

			summary, reports, err := frames.Inspect(ctx, paths, updates)
			if updates != nil {
				close(updates)
			}
			<-uiDone
			if err != nil {
				return err
			}

			if !quiet {
				for _, r := range reports {
					printFrame(a.stdout, r)
				}
				fmt.Fprintln(a.stdout)
			}

			rows := []tui.SummaryRow{
				{Label: "Pattern", Value: pattern},
				{Label: "Frames matched", Value: strconv.Itoa(summary.Total)},
				{Label: "Frames readable", Value: strconv.Itoa(summary.Inspected)},
				{Label: "Unreadable", Value: strconv.Itoa(summary.Errors)},
				{Label: "With capture time", Value: strconv.Itoa(summary.Captured)},
			}
			fmt.Fprintln(a.stdout, tui.RenderSummary(rows))
			fmt.Fprintln(a.stdout, framesHeadStyle.Render("Insights:"))
			fmt.Fprintln(a.stdout, tui.RenderInsights(frames.BuildInsights(reports)))
			return nil
		},
	}
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the summary and insights")
	return c
}

func printFrame(w io.Writer, r frames.Report) {
	if !r.OK() {
		fmt.Fprintf(w, "%s  %s\n", framesFileStyle.Render(r.Name), framesErrStyle.Render(r.Err.Error()))
		return
	}
	detail := fmt.Sprintf("%s %dx%d", r.Kind, r.Width, r.Height)
	if !r.Captured.IsZero() {
		detail += "  " + r.Captured.Format("2006-01-02 15:04:05")
	}
	if r.Device != "" {
		detail += "  " + r.Device
	}
	fmt.Fprintf(w, "%s  %s\n", framesFileStyle.Render(r.Name), framesDimStyle.Render(detail))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	framesFileStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	framesHeadStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	framesDimStyle  = lipgloss.NewStyle().Foreground(tui.ColorDim)
	framesErrStyle  = lipgloss.NewStyle().Foreground(tui.ColorDanger)
)
