package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/photoframer/internal/composite"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

func TestParseAdjustments(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Adjustments
		wantErr bool
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			want:  types.DefaultAdjustments(),
		},
		{
			name:  "two sliders",
			input: "brightness=120,contrast=90",
			want:  types.Adjustments{Brightness: 120, Contrast: 90, Highlights: 100, Shadows: 100, Vibrance: 100},
		},
		{
			name:  "spaces and case",
			input: " Vibrance = 150 , shadows=80",
			want:  types.Adjustments{Brightness: 100, Contrast: 100, Highlights: 100, Shadows: 80, Vibrance: 150},
		},
		{
			name:    "missing value",
			input:   "brightness",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "contrast=high",
			wantErr: true,
		},
		{
			name:    "unknown slider",
			input:   "sharpness=10",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAdjustments(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "auto", false).Info("hello", "k", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])

	buf.Reset()
	newLogger(&buf, "text", false).Debug("hidden")
	require.Empty(t, buf.String())

	newLogger(&buf, "text", true).Debug("shown")
	require.Contains(t, buf.String(), "msg=shown")
}

func TestWriteArtifactPicksExtension(t *testing.T) {
	logger = newLogger(&bytes.Buffer{}, "json", false)
	dir := t.TempDir()

	require.NoError(t, writeArtifact(dir, "print", &composite.Artifact{MIME: "image/jpeg", Data: []byte{1}}))
	require.NoError(t, writeArtifact(dir, "preview", &composite.Artifact{MIME: "image/png", Data: []byte{2}}))

	_, err := os.Stat(filepath.Join(dir, "print.jpg"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "preview.png"))
	require.NoError(t, err)
}
