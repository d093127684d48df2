// Package format provides pure display formatting and validation helpers
// for the photo domain.
package format

import (
	"fmt"
	"math"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lumapix/lumapix-client/pkg/models"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// Bytes renders a byte count in the nearest base-1024 unit. The optional
// decimals argument controls precision (default 2); negative values clamp
// to zero. Trailing zeros are trimmed, so 1536 renders as "1.5 KB" and
// 1048576 as "1 MB". Non-positive sizes render as "0 Bytes".
func Bytes(size int64, decimals ...int) string {
	// The server should never report a negative size, but the field comes
	// straight off the wire and a negative logarithm would blow up below.
	if size <= 0 {
		return "0 Bytes"
	}

	dm := 2
	if len(decimals) > 0 {
		dm = decimals[0]
	}
	if dm < 0 {
		dm = 0
	}

	i := int(math.Floor(math.Log(float64(size)) / math.Log(1024)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	value := float64(size) / math.Pow(1024, float64(i))
	shift := math.Pow(10, float64(dm))
	value = math.Round(value*shift) / shift

	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[i]
}

// Relative-time bucket thresholds in seconds.
const (
	minuteSecs = 60
	hourSecs   = 3600
	daySecs    = 86400
	weekSecs   = 604800
	monthSecs  = 2592000
	yearSecs   = 31536000
)

// RelTime renders the elapsed time between t and now as a coarse human
// phrase. Buckets are selected with strict < comparisons, so exactly 60
// elapsed seconds already reads in minutes.
func RelTime(t, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())
	if secs < 0 {
		secs = 0
	}

	switch {
	case secs < minuteSecs:
		return "just now"
	case secs < hourSecs:
		return plural(secs/minuteSecs, "minute")
	case secs < daySecs:
		return plural(secs/hourSecs, "hour")
	case secs < weekSecs:
		return plural(secs/daySecs, "day")
	case secs < monthSecs:
		return plural(secs/weekSecs, "week")
	case secs < yearSecs:
		return plural(secs/monthSecs, "month")
	default:
		return plural(secs/yearSecs, "year")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// MediaKind is the coarse classification of a photo's MIME type.
type MediaKind int

const (
	MediaUnknown MediaKind = iota
	MediaImage
	MediaVideo
)

// Label returns the display label for the kind.
func (k MediaKind) Label() string {
	switch k {
	case MediaImage:
		return "Image"
	case MediaVideo:
		return "Video"
	default:
		return "File"
	}
}

// ClassifyMime buckets a MIME type by its top-level prefix.
func ClassifyMime(mimeType string) MediaKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaImage
	case strings.HasPrefix(mimeType, "video/"):
		return MediaVideo
	default:
		return MediaUnknown
	}
}

// DisplayURL returns the URL to render for a photo: the thumbnail when one
// is present, otherwise the API file-serving endpoint. Already-absolute
// URLs pass through unchanged; relative paths are concatenated with baseURL
// verbatim, duplicate slashes included.
func DisplayURL(p *models.Photo, baseURL string) string {
	if p.ThumbnailURL != "" {
		return resolveURL(p.ThumbnailURL, baseURL)
	}
	return baseURL + "/api/photos/" + p.ID + "/file"
}

// FileDisplayURL returns the URL of the photo's original file, with the
// same pass-through and fallback rules as DisplayURL.
func FileDisplayURL(p *models.Photo, baseURL string) string {
	if p.FileURL != "" {
		return resolveURL(p.FileURL, baseURL)
	}
	return baseURL + "/api/photos/" + p.ID + "/file"
}

func resolveURL(path, baseURL string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return baseURL + path
}

// MimeByExtension guesses a MIME type from a file name, defaulting to
// application/octet-stream.
func MimeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t := mime.TypeByExtension(ext); t != "" {
		// Strip any charset parameter.
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "application/octet-stream"
}
