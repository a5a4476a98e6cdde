package frames

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const displayTime = "2006-01-02 15:04:05"

// BuildInsights flags frame sets that would encode badly or in an
// unexpected order. reports must be in the order the encoder will see
// them.
func BuildInsights(reports []Report) []Insight {
	if len(reports) == 0 {
		return nil
	}

	insights := []Insight{}
	if in := buildUnreadableInsight(reports); in != nil {
		insights = append(insights, *in)
	}

	ok := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.OK() {
			ok = append(ok, r)
		}
	}
	if len(ok) == 0 {
		return insights
	}

	if len(ok) == 1 {
		insights = append(insights, Insight{
			Kind:    "Frames",
			Message: "Only one frame matched; the output will be a still image.",
		})
	}
	if in := buildDimensionInsight(ok); in != nil {
		insights = append(insights, *in)
	}
	if in := buildFormatInsight(ok); in != nil {
		insights = append(insights, *in)
	}
	if in := buildDeviceInsight(ok); in != nil {
		insights = append(insights, *in)
	}
	if in := buildTimelineInsight(ok); in != nil {
		insights = append(insights, *in)
	}
	if in := buildOrderInsight(ok); in != nil {
		insights = append(insights, *in)
	}

	return insights
}

func buildUnreadableInsight(reports []Report) *Insight {
	var failed []Report
	for _, r := range reports {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d of %d files could not be read as frames (first: %s: %v)",
		len(failed), len(reports), failed[0].Name, failed[0].Err)
	return &Insight{Kind: "Unreadable", Message: msg}
}

func buildDimensionInsight(reports []Report) *Insight {
	counts := make(map[string]int)
	for _, r := range reports {
		counts[sizeOf(r)]++
	}
	if len(counts) < 2 {
		return nil
	}

	common := mostCommon(counts)
	var odd *Report
	differing := 0
	for i := range reports {
		if sizeOf(reports[i]) != common {
			differing++
			if odd == nil {
				odd = &reports[i]
			}
		}
	}
	msg := fmt.Sprintf("%d of %d frames differ from %s (first: %s is %s)",
		differing, len(reports), common, odd.Name, sizeOf(*odd))
	return &Insight{Kind: "Dimensions", Message: msg}
}

func buildFormatInsight(reports []Report) *Insight {
	counts := make(map[string]int)
	for _, r := range reports {
		counts[r.Kind.String()]++
	}
	if len(counts) < 2 {
		return nil
	}
	return &Insight{Kind: "Formats", Message: "Mixed input formats: " + joinCounts(counts)}
}

func buildDeviceInsight(reports []Report) *Insight {
	counts := make(map[string]int)
	for _, r := range reports {
		if r.Device != "" {
			counts[r.Device]++
		}
	}
	switch len(counts) {
	case 0:
		return nil
	case 1:
		for device := range counts {
			msg := fmt.Sprintf("Device: %s", device)
			if deviceType := inferDeviceType(strings.ToLower(device)); deviceType != "" {
				msg += fmt.Sprintf(" (%s)", deviceType)
			}
			return &Insight{Kind: "Device", Message: msg}
		}
	}
	return &Insight{Kind: "Device", Message: "Frames come from several devices: " + joinCounts(counts)}
}

func buildTimelineInsight(reports []Report) *Insight {
	var first, last time.Time
	captured := 0
	for _, r := range reports {
		if r.Captured.IsZero() {
			continue
		}
		captured++
		if first.IsZero() || r.Captured.Before(first) {
			first = r.Captured
		}
		if r.Captured.After(last) {
			last = r.Captured
		}
	}
	if captured < 2 {
		return nil
	}
	msg := fmt.Sprintf("Captured %s to %s (%s, %d of %d frames timestamped)",
		first.Format(displayTime), last.Format(displayTime), last.Sub(first), captured, len(reports))
	return &Insight{Kind: "Timeline", Message: msg}
}

// buildOrderInsight reports the first frame whose capture time is earlier
// than the frame the encoder plays before it.
func buildOrderInsight(reports []Report) *Insight {
	var prev *Report
	for i := range reports {
		cur := &reports[i]
		if cur.Captured.IsZero() {
			continue
		}
		if prev != nil && cur.Captured.Before(prev.Captured) {
			msg := fmt.Sprintf("Filename order differs from capture order: %s was captured before %s",
				cur.Name, prev.Name)
			return &Insight{Kind: "Order", Message: msg}
		}
		prev = cur
	}
	return nil
}

func sizeOf(r Report) string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// mostCommon breaks ties by key so the result is stable.
func mostCommon(counts map[string]int) string {
	best, bestN := "", -1
	for key, n := range counts {
		if n > bestN || (n == bestN && key < best) {
			best, bestN = key, n
		}
	}
	return best
}

func joinCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}

func inferDeviceType(device string) string {
	switch {
	case strings.Contains(device, "iphone"),
		strings.Contains(device, "pixel"),
		strings.Contains(device, "galaxy"),
		strings.Contains(device, "android"):
		return "smartphone"
	case strings.Contains(device, "gopro"):
		return "action camera"
	case strings.Contains(device, "dji"):
		return "drone"
	case strings.Contains(device, "canon"),
		strings.Contains(device, "nikon"),
		strings.Contains(device, "sony"),
		strings.Contains(device, "fujifilm"),
		strings.Contains(device, "panasonic"),
		strings.Contains(device, "olympus"):
		return "camera"
	default:
		return ""
	}
}
