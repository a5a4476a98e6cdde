package options

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidOption matches every InvalidOptionError via errors.Is.
var ErrInvalidOption = errors.New("invalid option")

// InvalidOptionError reports a numeric field outside its declared range.
type InvalidOptionError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%s: %s outside [%s, %s]", e.Field, formatNumber(e.Value), formatNumber(e.Min), formatNumber(e.Max))
}

func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// Bound is the declared range of one numeric field.
type Bound struct {
	Field string
	Min   float64
	Max   float64
}

var (
	BoundKMax         = Bound{Field: "kmax", Min: 0, Max: 100}
	BoundKMin         = Bound{Field: "kmin", Min: 0, Max: 100}
	BoundNearLossless = Bound{Field: "near_lossless", Min: 0, Max: 100}
	BoundLoop         = Bound{Field: "loop", Min: 0, Max: 100}
	BoundDuration     = Bound{Field: "duration", Min: 0, Max: 1000}
	BoundQuality      = Bound{Field: "quality", Min: 0, Max: 100}
	BoundMethod       = Bound{Field: "method", Min: 0, Max: 6}
)

// Bounds lists every numeric field in the order the form presents them.
func Bounds() []Bound {
	return []Bound{BoundKMax, BoundKMin, BoundNearLossless, BoundLoop, BoundDuration, BoundQuality, BoundMethod}
}

func (b Bound) String() string {
	return fmt.Sprintf("%s-%s", formatNumber(b.Min), formatNumber(b.Max))
}

func (b Bound) contains(v float64) bool {
	return !math.IsNaN(v) && v >= b.Min && v <= b.Max
}

func (b Bound) clampInt(v int) int {
	if float64(v) < b.Min {
		return int(b.Min)
	}
	if float64(v) > b.Max {
		return int(b.Max)
	}
	return v
}

// Validate rejects any numeric field outside its range. Every failing
// field is reported; the result matches ErrInvalidOption.
func (o OptionSet) Validate() error {
	var errs []error
	check := func(b Bound, v float64) {
		if !b.contains(v) {
			errs = append(errs, &InvalidOptionError{Field: b.Field, Value: v, Min: b.Min, Max: b.Max})
		}
	}
	check(BoundKMax, float64(o.KMax))
	check(BoundKMin, float64(o.KMin))
	check(BoundNearLossless, float64(o.NearLossless))
	check(BoundLoop, float64(o.Loop))
	check(BoundDuration, float64(o.Duration))
	check(BoundQuality, o.Quality)
	check(BoundMethod, float64(o.Method))
	return errors.Join(errs...)
}

// Clamp returns a copy with every numeric field forced into range, and
// one InvalidOptionError per field that had to change.
func (o OptionSet) Clamp() (OptionSet, []*InvalidOptionError) {
	var adjusted []*InvalidOptionError
	clampInt := func(b Bound, v *int) {
		if b.contains(float64(*v)) {
			return
		}
		adjusted = append(adjusted, &InvalidOptionError{Field: b.Field, Value: float64(*v), Min: b.Min, Max: b.Max})
		*v = b.clampInt(*v)
	}

	out := o
	clampInt(BoundKMax, &out.KMax)
	clampInt(BoundKMin, &out.KMin)
	clampInt(BoundNearLossless, &out.NearLossless)
	clampInt(BoundLoop, &out.Loop)
	clampInt(BoundDuration, &out.Duration)
	clampInt(BoundMethod, &out.Method)

	if !BoundQuality.contains(out.Quality) {
		adjusted = append(adjusted, &InvalidOptionError{Field: BoundQuality.Field, Value: out.Quality, Min: BoundQuality.Min, Max: BoundQuality.Max})
		switch {
		case math.IsNaN(out.Quality):
			out.Quality = DefaultQuality
		case out.Quality < BoundQuality.Min:
			out.Quality = BoundQuality.Min
		default:
			out.Quality = BoundQuality.Max
		}
	}
	return out, adjusted
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
