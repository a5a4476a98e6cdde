package options

import (
	"fmt"
	"strconv"
	"strings"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindInt
	KindFloat
)

// Field describes one OptionSet member for the CLI flags and the form.
// Key is the persisted record key; Flag is the command-line name.
type Field struct {
	Key   string
	Flag  string
	Label string
	Usage string
	Kind  FieldKind
	ptr   func(*OptionSet) any
}

// Fields lists every option in form order.
func Fields() []Field {
	return []Field{
		{Key: "input_dir", Flag: "input-dir", Label: "Input directory", Usage: "directory holding the frames", Kind: KindString,
			ptr: func(o *OptionSet) any { return &o.InputDir }},
		{Key: "glob_pattern", Flag: "glob", Label: "Glob pattern", Usage: "frame file pattern inside the input directory", Kind: KindString,
			ptr: func(o *OptionSet) any { return &o.GlobPattern }},
		{Key: "output_dir", Flag: "output-dir", Label: "Output directory", Usage: "directory the animation is written to", Kind: KindString,
			ptr: func(o *OptionSet) any { return &o.OutputDir }},
		{Key: "output_prefix", Flag: "prefix", Label: "Output prefix", Usage: "output file name prefix", Kind: KindString,
			ptr: func(o *OptionSet) any { return &o.OutputPrefix }},
		{Key: "min_size", Flag: "min-size", Label: "Minimize size", Usage: "minimize output size (slow)", Kind: KindBool,
			ptr: func(o *OptionSet) any { return &o.MinSize }},
		{Key: "mixed", Flag: "mixed", Label: "Mixed", Usage: "use mixed lossy/lossless frames", Kind: KindBool,
			ptr: func(o *OptionSet) any { return &o.Mixed }},
		{Key: "sharp_yuv", Flag: "sharp-yuv", Label: "Sharp YUV", Usage: "use sharper RGB->YUV conversion", Kind: KindBool,
			ptr: func(o *OptionSet) any { return &o.SharpYUV }},
		{Key: "kmax", Flag: "kmax", Label: "Max keyframe distance", Usage: "maximum distance between key frames (0 = encoder default)", Kind: KindInt,
			ptr: func(o *OptionSet) any { return &o.KMax }},
		{Key: "kmin", Flag: "kmin", Label: "Min keyframe distance", Usage: "minimum distance between key frames (0 = encoder default)", Kind: KindInt,
			ptr: func(o *OptionSet) any { return &o.KMin }},
		{Key: "near_lossless", Flag: "near-lossless", Label: "Near lossless", Usage: "near-lossless preprocessing level (100 = off)", Kind: KindInt,
			ptr: func(o *OptionSet) any { return &o.NearLossless }},
		{Key: "loop", Flag: "loop", Label: "Loop count", Usage: "animation loop count (0 = infinite)", Kind: KindInt,
			ptr: func(o *OptionSet) any { return &o.Loop }},
		{Key: "lossless", Flag: "lossless", Label: "Lossless", Usage: "lossless compression (false = lossy)", Kind: KindBool,
			ptr: func(o *OptionSet) any { return &o.Lossless }},
		{Key: "exact", Flag: "exact", Label: "Exact", Usage: "preserve RGB values under transparency", Kind: KindBool,
			ptr: func(o *OptionSet) any { return &o.Exact }},
		{Key: "duration", Flag: "duration", Label: "Frame duration (ms)", Usage: "duration of every frame in milliseconds", Kind: KindInt,
			ptr: func(o *OptionSet) any { return &o.Duration }},
		{Key: "quality", Flag: "quality", Label: "Quality", Usage: "compression quality factor", Kind: KindFloat,
			ptr: func(o *OptionSet) any { return &o.Quality }},
		{Key: "method", Flag: "method", Label: "Method", Usage: "compression method (0 = fast, 6 = slowest)", Kind: KindInt,
			ptr: func(o *OptionSet) any { return &o.Method }},
	}
}

// Bound returns the declared range of a numeric field.
func (f Field) Bound() (Bound, bool) {
	for _, b := range Bounds() {
		if b.Field == f.Key {
			return b, true
		}
	}
	return Bound{}, false
}

// Ptr returns the address of the field inside o: *string, *bool, *int or
// *float64 according to Kind.
func (f Field) Ptr(o *OptionSet) any {
	return f.ptr(o)
}

// Format renders the field's current value in o.
func (f Field) Format(o OptionSet) string {
	switch p := f.ptr(&o).(type) {
	case *string:
		return *p
	case *bool:
		return strconv.FormatBool(*p)
	case *int:
		return strconv.Itoa(*p)
	case *float64:
		return strconv.FormatFloat(*p, 'f', -1, 64)
	default:
		return ""
	}
}

// Set parses raw into the field of o. Range checks are left to Validate.
func (f Field) Set(o *OptionSet, raw string) error {
	raw = strings.TrimSpace(raw)
	switch p := f.ptr(o).(type) {
	case *string:
		*p = raw
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", f.Key, raw)
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", f.Key, raw)
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", f.Key, raw)
		}
		*p = v
	}
	return nil
}
