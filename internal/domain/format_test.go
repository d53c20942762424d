package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormatSelection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []ExportFormat
	}{
		{
			name:     "blank defaults to mp4",
			input:    "",
			expected: []ExportFormat{FormatMP4},
		},
		{
			name:     "single selection",
			input:    "2",
			expected: []ExportFormat{FormatMKV},
		},
		{
			name:     "multi select space separated",
			input:    "1 4",
			expected: []ExportFormat{FormatMP4, FormatMP3},
		},
		{
			name:     "multi select comma separated",
			input:    "3,4",
			expected: []ExportFormat{FormatMOV, FormatMP3},
		},
		{
			name:     "duplicates dropped order preserved",
			input:    "4 1 4 1",
			expected: []ExportFormat{FormatMP3, FormatMP4},
		},
		{
			name:     "garbage tokens ignored",
			input:    "x 2 potato",
			expected: []ExportFormat{FormatMKV},
		},
		{
			name:     "out of range numbers ignored",
			input:    "0 9 3",
			expected: []ExportFormat{FormatMOV},
		},
		{
			name:     "all garbage falls back to default",
			input:    "foo bar",
			expected: []ExportFormat{FormatMP4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormatSelection(tt.input))
		})
	}
}

func TestValidateFormat(t *testing.T) {
	assert.True(t, ValidateFormat(FormatMP4))
	assert.True(t, ValidateFormat(FormatMP3))
	assert.False(t, ValidateFormat(ExportFormat("flac")))
}

func TestExportFormat_IsAudio(t *testing.T) {
	assert.True(t, FormatMP3.IsAudio())
	assert.False(t, FormatMP4.IsAudio())
	assert.False(t, FormatMKV.IsAudio())
	assert.False(t, FormatMOV.IsAudio())
}
