package frames

import (
	"errors"
	"time"

	"webpseq/pkg/imgutil"
)

// ErrUnsupportedFormat marks a matched file that is not an image format
// img2webp reads.
var ErrUnsupportedFormat = errors.New("unsupported frame format")

type Job struct {
	Index int
	Path  string
}

type Result struct {
	Index  int
	Report Report
}

// Report describes one input frame. Captured is zero when the file
// carries no capture time.
type Report struct {
	Path     string
	Name     string
	Kind     imgutil.Kind
	Width    int
	Height   int
	Captured time.Time
	Device   string
	Err      error
}

func (r Report) OK() bool {
	return r.Err == nil
}

type Summary struct {
	Total     int
	Inspected int
	Errors    int
	Captured  int
}

type Insight struct {
	Kind    string
	Message string
}

type ProgressUpdate struct {
	TotalDelta     int
	InspectedDelta int
	ErrorDelta     int
}
