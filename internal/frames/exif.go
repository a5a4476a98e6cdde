package frames

import (
	"errors"
	"io"
	"strings"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// maxExifScan bounds how much of a frame is searched for a TIFF header.
const maxExifScan = 4 << 20

type captureInfo struct {
	Captured time.Time
	Device   string
}

func analyzeExif(rs io.ReadSeeker) (captureInfo, error) {
	info := captureInfo{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return info, err
	}

	raw, err := exif.SearchAndExtractExifWithReader(io.LimitReader(rs, maxExifScan))
	if err != nil {
		if isNoExif(err) {
			return info, nil
		}
		return info, err
	}
	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return info, err
	}

	values := make(map[string]string)
	for _, tag := range tags {
		if _, seen := values[tag.TagName]; seen {
			continue
		}
		values[tag.TagName] = tagString(tag)
	}

	for _, name := range []string{"DateTimeOriginal", "DateTimeDigitized", "DateTime"} {
		if ts, ok := parseExifTime(values[name]); ok {
			info.Captured = ts
			break
		}
	}

	device := strings.TrimSpace(strings.Join([]string{values["Make"], values["Model"]}, " "))
	if device == "" {
		device = values["CameraModelName"]
	}
	info.Device = device

	return info, nil
}

func tagString(tag exif.ExifTag) string {
	if s, ok := tag.Value.(string); ok {
		return strings.TrimSpace(strings.TrimRight(s, "\x00"))
	}
	return strings.TrimSpace(tag.FormattedFirst)
}

// parseExifTime reads the EXIF "YYYY:MM:DD HH:MM:SS" form. The offset is
// not recorded, so the time is taken as UTC.
func parseExifTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(exifTimeLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func isNoExif(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
