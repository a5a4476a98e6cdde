package options

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	o := DefaultsIn("/home/u")
	require.NoError(t, o.Validate())
	require.Equal(t, "/home/u", o.InputDir)
	require.Equal(t, "/home/u", o.OutputDir)
	require.Equal(t, "*", o.GlobPattern)
	require.Equal(t, "output", o.OutputPrefix)
	require.True(t, o.Lossless)
	require.False(t, o.Exact)
	require.Equal(t, 100, o.NearLossless)
	require.Equal(t, 100, o.Duration)
	require.Equal(t, 75.0, o.Quality)
	require.Equal(t, 4, o.Method)
}

func TestValidateReportsEveryField(t *testing.T) {
	o := DefaultsIn("")
	o.KMax = 101
	o.Method = 7
	o.Quality = -1

	err := o.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidOption)
	require.Contains(t, err.Error(), "kmax")
	require.Contains(t, err.Error(), "method")
	require.Contains(t, err.Error(), "quality")

	var ioe *InvalidOptionError
	require.True(t, errors.As(err, &ioe))
	require.Equal(t, "kmax", ioe.Field)
}

func TestValidateRejectsNaNQuality(t *testing.T) {
	o := DefaultsIn("")
	o.Quality = math.NaN()
	require.ErrorIs(t, o.Validate(), ErrInvalidOption)
}

func TestClampForcesIntoRange(t *testing.T) {
	o := DefaultsIn("")
	o.KMin = -5
	o.Duration = 5000
	o.Quality = 120.5
	o.Loop = 50

	got, adjusted := o.Clamp()
	require.NoError(t, got.Validate())
	require.Equal(t, 0, got.KMin)
	require.Equal(t, 1000, got.Duration)
	require.Equal(t, 100.0, got.Quality)
	require.Equal(t, 50, got.Loop)
	require.Len(t, adjusted, 3)
	require.Equal(t, "kmin", adjusted[0].Field)
	require.Equal(t, -5.0, adjusted[0].Value)

	// the receiver is untouched
	require.Equal(t, -5, o.KMin)
}

func TestClampNaNQualityFallsBackToDefault(t *testing.T) {
	o := DefaultsIn("")
	o.Quality = math.NaN()
	got, adjusted := o.Clamp()
	require.Equal(t, DefaultQuality, got.Quality)
	require.Len(t, adjusted, 1)
}

func TestClampValidSetIsNoop(t *testing.T) {
	o := DefaultsIn("/x")
	got, adjusted := o.Clamp()
	require.Empty(t, adjusted)
	require.Equal(t, o, got)
}
