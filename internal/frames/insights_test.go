package frames

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"webpseq/pkg/imgutil"
)

func frame(name string, w, h int, captured time.Time) Report {
	return Report{Path: "/f/" + name, Name: name, Kind: imgutil.KindPNG, Width: w, Height: h, Captured: captured}
}

func findInsight(insights []Insight, kind string) *Insight {
	for i := range insights {
		if insights[i].Kind == kind {
			return &insights[i]
		}
	}
	return nil
}

func TestInsightsConsistentSetIsQuiet(t *testing.T) {
	insights := BuildInsights([]Report{
		frame("a.png", 64, 64, time.Time{}),
		frame("b.png", 64, 64, time.Time{}),
	})
	require.Empty(t, insights)
}

func TestInsightsMixedDimensions(t *testing.T) {
	insights := BuildInsights([]Report{
		frame("a.png", 64, 64, time.Time{}),
		frame("b.png", 64, 64, time.Time{}),
		frame("c.png", 32, 32, time.Time{}),
	})
	in := findInsight(insights, "Dimensions")
	require.NotNil(t, in)
	require.Equal(t, "1 of 3 frames differ from 64x64 (first: c.png is 32x32)", in.Message)
}

func TestInsightsCaptureOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	insights := BuildInsights([]Report{
		frame("a.png", 8, 8, base),
		frame("b.png", 8, 8, time.Time{}),
		frame("c.png", 8, 8, base.Add(-time.Minute)),
	})

	order := findInsight(insights, "Order")
	require.NotNil(t, order)
	require.Contains(t, order.Message, "c.png was captured before a.png")

	timeline := findInsight(insights, "Timeline")
	require.NotNil(t, timeline)
	require.Contains(t, timeline.Message, "2 of 3 frames timestamped")
}

func TestInsightsInOrderCaptureHasNoOrderWarning(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	insights := BuildInsights([]Report{
		frame("a.png", 8, 8, base),
		frame("b.png", 8, 8, base),
		frame("c.png", 8, 8, base.Add(time.Second)),
	})
	require.Nil(t, findInsight(insights, "Order"))
	require.NotNil(t, findInsight(insights, "Timeline"))
}

func TestInsightsUnreadableAndFormats(t *testing.T) {
	jpg := frame("b.jpg", 8, 8, time.Time{})
	jpg.Kind = imgutil.KindJPEG
	bad := Report{Name: "c.txt", Err: errors.New("boom")}

	insights := BuildInsights([]Report{frame("a.png", 8, 8, time.Time{}), jpg, bad})

	unreadable := findInsight(insights, "Unreadable")
	require.NotNil(t, unreadable)
	require.True(t, strings.HasPrefix(unreadable.Message, "1 of 3 files"))

	formats := findInsight(insights, "Formats")
	require.NotNil(t, formats)
	require.Equal(t, "Mixed input formats: jpeg 1, png 1", formats.Message)
}

func TestInsightsSingleFrameAndDevice(t *testing.T) {
	r := frame("a.jpg", 8, 8, time.Time{})
	r.Device = "GoPro HERO9 Black"
	insights := BuildInsights([]Report{r})

	require.NotNil(t, findInsight(insights, "Frames"))
	device := findInsight(insights, "Device")
	require.NotNil(t, device)
	require.Equal(t, "Device: GoPro HERO9 Black (action camera)", device.Message)
}

func TestInsightsEmpty(t *testing.T) {
	require.Nil(t, BuildInsights(nil))
}
