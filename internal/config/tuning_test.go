package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/shapecast/internal/shape"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmptyTuningConfig_Defaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	assert.Equal(t, shape.DefaultParams(), cfg.ClassifierParams())
	assert.Equal(t, 16*time.Millisecond, cfg.GetFrameInterval())
	seqs, err := cfg.MatcherSequences()
	require.NoError(t, err)
	assert.Empty(t, seqs)
	assert.NoError(t, cfg.Validate())
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	assert.Equal(t, shape.DefaultParams(), cfg.ClassifierParams())
	seqs, err := cfg.MatcherSequences()
	require.NoError(t, err)
	require.NotEmpty(t, seqs)
	assert.Equal(t, "elf", seqs[0].Name)
	assert.Equal(t, []shape.Label{shape.HorizontalLine, shape.V}, seqs[0].Required)
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, "shapes.json", `{
  "deviation_tolerance": 0.5,
  "axis_angle_tolerance": 5,
  "frame_interval": "33ms",
  "matchers": [
    {"name": "a", "shapes": ["V", "Line", "VerticalLine"]},
    {"name": "b", "shapes": []}
  ]
}`)

	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)

	want := shape.Params{
		DeviationTolerance: 0.5,
		AxisAngleTolerance: 5,
		CornerMinAngle:     shape.DefaultCornerMinAngle,
		CornerMaxAngle:     shape.DefaultCornerMaxAngle,
	}
	if diff := cmp.Diff(want, cfg.ClassifierParams()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 33*time.Millisecond, cfg.GetFrameInterval())

	seqs, err := cfg.MatcherSequences()
	require.NoError(t, err)
	wantSeqs := []MatcherSequence{
		{Name: "a", Required: []shape.Label{shape.V, shape.DiagonalLine, shape.VerticalLine}},
		{Name: "b", Required: []shape.Label{}},
	}
	if diff := cmp.Diff(wantSeqs, seqs); diff != "" {
		t.Errorf("sequences mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTuningConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "shapes.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{`, "failed to parse config JSON"},
		{"negative deviation", "c.json", `{"deviation_tolerance": -1}`, "deviation tolerance"},
		{"axis too wide", "c.json", `{"axis_angle_tolerance": 90}`, "axis angle tolerance"},
		{"inverted corner band", "c.json", `{"corner_min_angle": 120, "corner_max_angle": 60}`, "corner min angle"},
		{"bad frame interval", "c.json", `{"frame_interval": "soon"}`, "invalid frame_interval"},
		{"zero frame interval", "c.json", `{"frame_interval": "0s"}`, "frame_interval must be positive"},
		{"unknown shape", "c.json", `{"matchers": [{"name": "x", "shapes": ["Circle"]}]}`, "Circle"},
		{"unrecognized shape", "c.json", `{"matchers": [{"name": "x", "shapes": ["Unrecognized"]}]}`, "never be matched"},
		{"missing name", "c.json", `{"matchers": [{"shapes": ["V"]}]}`, "name is required"},
		{"duplicate name", "c.json", `{"matchers": [{"name": "x"}, {"name": "x"}]}`, "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTuningConfig(writeConfig(t, tt.file, tt.body))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should contain %q", err, tt.wantErr)
		})
	}
}

func TestLoadTuningConfig_UnknownShapeIsWrapped(t *testing.T) {
	path := writeConfig(t, "c.json", `{"matchers": [{"name": "x", "shapes": ["V", "Square"]}]}`)
	_, err := LoadTuningConfig(path)
	assert.True(t, errors.Is(err, shape.ErrUnknownLabel))
}

func TestLoadTuningConfig_MissingFile(t *testing.T) {
	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadTuningConfig_TooLarge(t *testing.T) {
	body := `{"matchers": [` + strings.Repeat(`{"name": "x", "shapes": []},`, 50000) + `]}`
	_, err := LoadTuningConfig(writeConfig(t, "big.json", body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestGetFrameInterval_FallsBack(t *testing.T) {
	cfg := &TuningConfig{FrameInterval: ptrString("nonsense")}
	assert.Equal(t, 16*time.Millisecond, cfg.GetFrameInterval())

	cfg.FrameInterval = ptrString("")
	assert.Equal(t, 16*time.Millisecond, cfg.GetFrameInterval())
}

func TestGetters_UseSetValues(t *testing.T) {
	cfg := &TuningConfig{
		DeviationTolerance: ptrFloat64(0.1),
		AxisAngleTolerance: ptrFloat64(15),
		CornerMinAngle:     ptrFloat64(30),
		CornerMaxAngle:     ptrFloat64(150),
	}
	assert.Equal(t, 0.1, cfg.GetDeviationTolerance())
	assert.Equal(t, 15.0, cfg.GetAxisAngleTolerance())
	assert.Equal(t, 30.0, cfg.GetCornerMinAngle())
	assert.Equal(t, 150.0, cfg.GetCornerMaxAngle())
	assert.NoError(t, cfg.Validate())
}
