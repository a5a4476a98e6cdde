package options

import (
	"os"
)

// OptionSet holds every flag img2webp accepts plus the input and output
// locations used to derive the command.
type OptionSet struct {
	InputDir     string `json:"input_dir" toml:"input_dir"`
	GlobPattern  string `json:"glob_pattern" toml:"glob_pattern"`
	OutputDir    string `json:"output_dir" toml:"output_dir"`
	OutputPrefix string `json:"output_prefix" toml:"output_prefix"`

	MinSize      bool `json:"min_size" toml:"min_size"`
	Mixed        bool `json:"mixed" toml:"mixed"`
	SharpYUV     bool `json:"sharp_yuv" toml:"sharp_yuv"`
	KMax         int  `json:"kmax" toml:"kmax"`
	KMin         int  `json:"kmin" toml:"kmin"`
	NearLossless int  `json:"near_lossless" toml:"near_lossless"`
	Loop         int  `json:"loop" toml:"loop"`

	Lossless bool    `json:"lossless" toml:"lossless"`
	Exact    bool    `json:"exact" toml:"exact"`
	Duration int     `json:"duration" toml:"duration"`
	Quality  float64 `json:"quality" toml:"quality"`
	Method   int     `json:"method" toml:"method"`
}

const (
	DefaultGlobPattern  = "*"
	DefaultOutputPrefix = "output"
	DefaultNearLossless = 100
	DefaultDuration     = 100
	DefaultQuality      = 75.0
	DefaultMethod       = 4
)

// Defaults returns the option set a fresh form starts with. Both
// directories point at the user's home directory, or are empty when it
// cannot be determined.
func Defaults() OptionSet {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return DefaultsIn(home)
}

// DefaultsIn is Defaults with an explicit starting directory.
func DefaultsIn(dir string) OptionSet {
	return OptionSet{
		InputDir:     dir,
		GlobPattern:  DefaultGlobPattern,
		OutputDir:    dir,
		OutputPrefix: DefaultOutputPrefix,
		NearLossless: DefaultNearLossless,
		Lossless:     true,
		Duration:     DefaultDuration,
		Quality:      DefaultQuality,
		Method:       DefaultMethod,
	}
}
