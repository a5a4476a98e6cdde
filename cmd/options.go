package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"webpseq/internal/config"
	"webpseq/internal/options"
)

// bindOptionFlags registers one persistent flag per option. Only flags
// the user sets override the loaded config.
func bindOptionFlags(cmd *cobra.Command, a *app) {
	a.flagValues = options.Defaults()
	pf := cmd.PersistentFlags()
	for _, f := range options.Fields() {
		usage := f.Usage
		if b, ok := f.Bound(); ok {
			usage += " (" + b.String() + ")"
		}
		switch p := f.Ptr(&a.flagValues).(type) {
		case *string:
			pf.StringVar(p, f.Flag, *p, usage)
		case *bool:
			pf.BoolVar(p, f.Flag, *p, usage)
		case *int:
			pf.IntVar(p, f.Flag, *p, usage)
		case *float64:
			pf.Float64Var(p, f.Flag, *p, usage)
		}
	}
	pf.BoolVar(&a.clamp, "clamp", false, "clamp out-of-range numbers instead of rejecting them")
}

// configFile returns the config path and whether the user named it.
func (a *app) configFile() (string, bool, error) {
	if a.configPath != "" {
		return a.configPath, true, nil
	}
	path, err := config.DefaultPath()
	return path, false, err
}

// resolveOptions layers defaults, the config file and changed flags, then
// validates or clamps the result. A config file the user named must exist
// unless allowMissing is set.
func (a *app) resolveOptions(cmd *cobra.Command, allowMissing bool) (options.OptionSet, error) {
	o := options.Defaults()

	path, explicit, err := a.configFile()
	if err != nil {
		a.logger.Debug("no per-user config directory", "err", err)
	} else {
		loaded, err := config.Load(path, o)
		switch {
		case err == nil:
			a.logger.Debug("loaded config", "path", path)
			o = loaded
		case errors.Is(err, fs.ErrNotExist) && (!explicit || allowMissing):
		default:
			return o, err
		}
	}

	for _, f := range options.Fields() {
		if !cmd.Flags().Changed(f.Flag) {
			continue
		}
		if err := f.Set(&o, f.Format(a.flagValues)); err != nil {
			return o, err
		}
	}

	if a.clamp {
		clamped, adjusted := o.Clamp()
		for _, adj := range adjusted {
			a.logger.Warn("option clamped", "field", adj.Field, "value", adj.Value, "min", adj.Min, "max", adj.Max)
		}
		return clamped, nil
	}
	if err := o.Validate(); err != nil {
		return o, &ExitError{Code: 2, Message: err.Error(), Err: err}
	}
	return o, nil
}
