package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"webpseq/internal/runner"
	"webpseq/internal/tui"
)

func newFormCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "form [flags]",
		Short: "Edit options in an interactive form and run img2webp from it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.resolveOptions(cmd, true)
			if err != nil {
				return err
			}
			savePath, _, err := a.configFile()
			if err != nil {
				a.logger.Warn("saving disabled", "err", err)
				savePath = ""
			}

			bin, err := runner.ResolveBinary(a.binary)
			if err != nil {
				a.logger.Warn("encoder not found; runs will fail to launch", "err", err)
				bin = runner.BinaryName()
			}

			form := tui.NewForm(tui.FormConfig{
				Options:  o,
				Runner:   a.newRunner(bin),
				SavePath: savePath,
				Context:  cmd.Context(),
			})
			program := tea.NewProgram(form, tea.WithAltScreen(), tea.WithOutput(a.stdout))
			_, err = program.Run()
			return err
		},
	}
}
