package domain

import (
	"strconv"
	"strings"
)

// ExportFormat represents a requested output container or audio codec
type ExportFormat string

const (
	FormatMP4 ExportFormat = "mp4"
	FormatMKV ExportFormat = "mkv"
	FormatMOV ExportFormat = "mov"
	FormatMP3 ExportFormat = "mp3" // audio-only
)

// DefaultFormat is used when the user makes no selection
const DefaultFormat = FormatMP4

// IsAudio reports whether the format is an audio-only export
func (f ExportFormat) IsAudio() bool {
	return f == FormatMP3
}

// ValidateFormat checks if an export format is supported
func ValidateFormat(f ExportFormat) bool {
	switch f {
	case FormatMP4, FormatMKV, FormatMOV, FormatMP3:
		return true
	}
	return false
}

// FormatMenuEntry is one line of the numeric format selection menu
type FormatMenuEntry struct {
	Number      int
	Format      ExportFormat
	Description string
}

// FormatMenu returns the selection menu in display order
func FormatMenu() []FormatMenuEntry {
	return []FormatMenuEntry{
		{1, FormatMP4, "Video MP4 (default)"},
		{2, FormatMKV, "Video MKV"},
		{3, FormatMOV, "Video MOV"},
		{4, FormatMP3, "Audio MP3 (audio-only)"},
	}
}

// ParseFormatSelection parses a numeric multi-select like "1 4" or "2,3".
// Blank input and input with no recognizable numbers both fall back to the
// default format. Duplicates are dropped, first-seen order is preserved.
func ParseFormatSelection(raw string) []ExportFormat {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []ExportFormat{DefaultFormat}
	}

	menu := FormatMenu()
	byNumber := make(map[int]ExportFormat, len(menu))
	for _, e := range menu {
		byNumber[e.Number] = e.Format
	}

	var picked []ExportFormat
	seen := make(map[ExportFormat]bool)

	for _, token := range strings.Fields(strings.ReplaceAll(raw, ",", " ")) {
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		format, ok := byNumber[n]
		if !ok || seen[format] {
			continue
		}
		seen[format] = true
		picked = append(picked, format)
	}

	if len(picked) == 0 {
		return []ExportFormat{DefaultFormat}
	}
	return picked
}
