package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"webpseq/internal/logging"
	"webpseq/internal/options"
)

// app carries the flag values and writers shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
	binary     string

	flagValues options.OptionSet
	clamp      bool

	logger *log.Logger
}

func Execute() error {
	return NewRootCmd(os.Stdout, os.Stderr).Execute()
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: log.New(io.Discard)}

	root := &cobra.Command{
		Use:           "webpseq",
		Short:         "webpseq - build and run img2webp animations from image sequences",
		Long:          "webpseq turns a directory of frames into an animated WebP by driving img2webp, with the same options from flags, a saved config or an interactive form.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.stderr, a.logLevel, a.logFormat)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			a.logger = logger
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.CompletionOptions.HiddenDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (.json or .toml); defaults to the per-user config")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text, json or logfmt")
	pf.StringVar(&a.binary, "img2webp", "", "path to the img2webp executable")
	bindOptionFlags(root, a)

	root.AddCommand(
		newCommandCmd(a),
		newRunCmd(a),
		newFormCmd(a),
		newFramesCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}
