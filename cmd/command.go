package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"webpseq/internal/command"
	"webpseq/internal/runner"
)

func newCommandCmd(a *app) *cobra.Command {
	var argsOnly bool

	c := &cobra.Command{
		Use:   "command [flags]",
		Short: "Print the img2webp command line and output path",
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

			if argsOnly {
				for _, arg := range built.Args {
					fmt.Fprintln(a.stdout, arg)
				}
				return nil
			}
			fmt.Fprintln(a.stdout, built.Line(a.displayBinary()))
			fmt.Fprintf(a.stdout, "output: %s\n", built.OutputPath)
			return nil
		},
	}
	c.Flags().BoolVar(&argsOnly, "args", false, "print one argument per line, without the binary")
	return c
}

// displayBinary is the resolved encoder path, or its bare name when it
// cannot be found; printing a command never requires the encoder.
func (a *app) displayBinary() string {
	bin, err := runner.ResolveBinary(a.binary)
	if err != nil {
		a.logger.Debug("encoder not resolved", "err", err)
		if a.binary != "" {
			return a.binary
		}
		return runner.BinaryName()
	}
	return bin
}
