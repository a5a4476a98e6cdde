package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"webpseq/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Show, save or locate the persisted options",
	}

	var format string
	show := &cobra.Command{
		Use:   "show [flags]",
		Short: "Print the effective options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.resolveOptions(cmd, false)
			if err != nil {
				return err
			}
			var f config.Format
			switch strings.ToLower(format) {
			case "json":
				f = config.FormatJSON
			case "toml":
				f = config.FormatTOML
			default:
				return &ExitError{Code: 2, Message: fmt.Sprintf("invalid format %q: must be json or toml", format)}
			}
			data, err := config.Encode(o, f)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	show.Flags().StringVar(&format, "format", "json", "output format: json or toml")

	save := &cobra.Command{
		Use:   "save [flags]",
		Short: "Write the effective options to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := a.configFile()
			if err != nil {
				return err
			}
			o, err := a.resolveOptions(cmd, true)
			if err != nil {
				return err
			}
			if err := config.Save(path, o); err != nil {
				return err
			}
			a.logger.Info("config saved", "path", path)
			fmt.Fprintf(a.stdout, "Saved %s\n", path)
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := a.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, p)
			return nil
		},
	}

	c.AddCommand(show, save, path)
	return c
}
