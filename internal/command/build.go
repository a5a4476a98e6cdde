package command

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"webpseq/internal/options"
)

// Command is a ready-to-run img2webp invocation. Args excludes the
// binary name.
type Command struct {
	Args       []string
	OutputPath string
	Suffix     string
}

// Build derives the argument vector and output path for o. It touches no
// filesystem state; an option outside its range is reported as an error
// rather than clamped here.
func Build(o options.OptionSet) (Command, error) {
	if err := o.Validate(); err != nil {
		return Command{}, err
	}

	suffix := Suffix(o)
	output := joinPath(o.OutputDir, o.OutputPrefix+"_"+suffix+".webp")

	args := []string{"-v"}
	if o.MinSize {
		args = append(args, "-min_size")
	}
	if o.KMax > 0 {
		args = append(args, "-kmax", strconv.Itoa(o.KMax))
	}
	if o.KMin > 0 {
		args = append(args, "-kmin", strconv.Itoa(o.KMin))
	}
	if o.Mixed {
		args = append(args, "-mixed")
	}
	if o.NearLossless < 100 {
		args = append(args, "-near_lossless", strconv.Itoa(o.NearLossless))
	}
	if o.SharpYUV {
		args = append(args, "-sharp_yuv")
	}
	if o.Loop > 0 {
		args = append(args, "-loop", strconv.Itoa(o.Loop))
	}

	args = append(args, "-d", strconv.Itoa(o.Duration))
	if o.Lossless {
		args = append(args, "-lossless")
	} else {
		args = append(args, "-lossy")
	}
	args = append(args, "-q", FormatQuality(o.Quality))
	args = append(args, "-m", strconv.Itoa(o.Method))
	if o.Exact {
		args = append(args, "-exact")
	} else {
		args = append(args, "-noexact")
	}

	args = append(args, InputPattern(o))
	args = append(args, "-o", output)

	return Command{Args: args, OutputPath: output, Suffix: suffix}, nil
}

// Suffix encodes the active options into the output file name, in the
// same order the flags are emitted.
func Suffix(o options.OptionSet) string {
	var parts []string
	if o.MinSize {
		parts = append(parts, "minsize")
	}
	if o.KMax > 0 {
		parts = append(parts, "kmax"+strconv.Itoa(o.KMax))
	}
	if o.KMin > 0 {
		parts = append(parts, "kmin"+strconv.Itoa(o.KMin))
	}
	if o.Mixed {
		parts = append(parts, "mixed")
	}
	if o.NearLossless < 100 {
		parts = append(parts, "nl"+strconv.Itoa(o.NearLossless))
	}
	if o.SharpYUV {
		parts = append(parts, "sharp")
	}
	if o.Loop > 0 {
		parts = append(parts, "loop"+strconv.Itoa(o.Loop))
	}

	parts = append(parts, "d"+strconv.Itoa(o.Duration))
	if o.Lossless {
		parts = append(parts, "loss")
	} else {
		// truncated, not rounded: 75.6 -> q75
		parts = append(parts, "q"+strconv.Itoa(int(o.Quality)))
	}
	parts = append(parts, "m"+strconv.Itoa(o.Method))
	if o.Exact {
		parts = append(parts, "exact")
	}
	return strings.Join(parts, "_")
}

// InputPattern joins the input directory and the glob pattern.
func InputPattern(o options.OptionSet) string {
	return joinPath(o.InputDir, o.GlobPattern)
}

// joinPath appends name to dir as typed, without cleaning: "./imgs" stays
// "./imgs/*". An absolute name replaces dir.
func joinPath(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	if os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// FormatQuality renders q at full precision and always with a
// fractional part, so 75 becomes "75.0" and 75.6 stays "75.6".
func FormatQuality(q float64) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Line renders the invocation as a single shell-quoted line.
func (c Command) Line(binary string) string {
	return shellquote.Join(append([]string{binary}, c.Args...)...)
}

// InputPattern returns the positional input argument.
func (c Command) InputPattern() string {
	// the pattern sits right before "-o <output>"
	if len(c.Args) < 3 {
		return ""
	}
	return c.Args[len(c.Args)-3]
}
