package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumapix/lumapix-client/pkg/models"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		size int64
		dm   []int
		want string
	}{
		{"zero", 0, nil, "0 Bytes"},
		{"exact kilobyte", 1024, nil, "1 KB"},
		{"fractional kilobyte", 1536, nil, "1.5 KB"},
		{"zero decimals rounds up", 1536, []int{0}, "2 KB"},
		{"negative decimals clamp to zero", 1536, []int{-3}, "2 KB"},
		{"megabyte", 1 << 20, nil, "1 MB"},
		{"gigabyte", 1 << 30, nil, "1 GB"},
		{"terabyte", 1 << 40, nil, "1 TB"},
		{"small", 512, nil, "512 Bytes"},
		{"negative size from a bad record", -1, nil, "0 Bytes"},
		{"most negative size", -1 << 62, nil, "0 Bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bytes(tt.size, tt.dm...))
		})
	}
}

func TestRelTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"30 seconds", 30 * time.Second, "just now"},
		{"exactly one minute", 60 * time.Second, "1 minute ago"},
		{"two minutes", 120 * time.Second, "2 minutes ago"},
		{"exactly one hour", 3600 * time.Second, "1 hour ago"},
		{"two hours", 7200 * time.Second, "2 hours ago"},
		{"three days", 72 * time.Hour, "3 days ago"},
		{"two weeks", 14 * 24 * time.Hour, "2 weeks ago"},
		{"two months", 60 * 24 * time.Hour, "2 months ago"},
		{"two years", 730 * 24 * time.Hour, "2 years ago"},
		{"future timestamp", -time.Minute, "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelTime(now.Add(-tt.ago), now))
		})
	}
}

func TestClassifyMime(t *testing.T) {
	assert.Equal(t, MediaImage, ClassifyMime("image/jpeg"))
	assert.Equal(t, MediaImage, ClassifyMime("image/png"))
	assert.Equal(t, MediaVideo, ClassifyMime("video/mp4"))
	assert.Equal(t, MediaUnknown, ClassifyMime("application/pdf"))
	assert.Equal(t, MediaUnknown, ClassifyMime(""))

	assert.Equal(t, "Image", MediaImage.Label())
	assert.Equal(t, "Video", MediaVideo.Label())
	assert.Equal(t, "File", MediaUnknown.Label())
}

func TestDisplayURL(t *testing.T) {
	base := "http://h"

	withThumb := &models.Photo{ID: "p1", ThumbnailURL: "/a/b.jpg"}
	assert.Equal(t, "http://h/a/b.jpg", DisplayURL(withThumb, base))

	noThumb := &models.Photo{ID: "p2"}
	assert.Equal(t, "http://h/api/photos/p2/file", DisplayURL(noThumb, base))

	absolute := &models.Photo{ID: "p3", ThumbnailURL: "https://cdn.example.com/t.jpg"}
	assert.Equal(t, "https://cdn.example.com/t.jpg", DisplayURL(absolute, base))
}

func TestDisplayURL_TrailingSlashNotNormalized(t *testing.T) {
	// Known rough edge: a trailing slash on the base URL produces a double
	// slash in the result.
	p := &models.Photo{ID: "p1", ThumbnailURL: "/a.jpg"}
	assert.Equal(t, "http://h//a.jpg", DisplayURL(p, "http://h/"))
}

func TestFileDisplayURL(t *testing.T) {
	base := "http://h"

	relative := &models.Photo{ID: "p1", FileURL: "/files/p1.mp4"}
	assert.Equal(t, "http://h/files/p1.mp4", FileDisplayURL(relative, base))

	absolute := &models.Photo{ID: "p2", FileURL: "http://media.example.com/p2.mp4"}
	assert.Equal(t, "http://media.example.com/p2.mp4", FileDisplayURL(absolute, base))

	empty := &models.Photo{ID: "p3"}
	assert.Equal(t, "http://h/api/photos/p3/file", FileDisplayURL(empty, base))
}

func TestValidateFolderName(t *testing.T) {
	assert.NoError(t, ValidateFolderName("Vacation 2024"))
	assert.NoError(t, ValidateFolderName(strings.Repeat("a", 255)))

	assert.ErrorIs(t, ValidateFolderName(""), ErrEmptyName)
	assert.ErrorIs(t, ValidateFolderName("   "), ErrEmptyName)
	assert.ErrorIs(t, ValidateFolderName("\t\n"), ErrEmptyName)
	assert.ErrorIs(t, ValidateFolderName(strings.Repeat("a", 256)), ErrNameTooLong)
}
