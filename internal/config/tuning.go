package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/shapecast/internal/shape"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/shapes.defaults.json"

// TuningConfig is the root configuration for the classifier thresholds, the
// replay frame rate and the matchers to spawn. Nil fields fall back to the
// built-in defaults through the Get* accessors, so partial files are safe.
type TuningConfig struct {
	// Classifier params
	DeviationTolerance *float64 `json:"deviation_tolerance,omitempty"`
	AxisAngleTolerance *float64 `json:"axis_angle_tolerance,omitempty"` // degrees
	CornerMinAngle     *float64 `json:"corner_min_angle,omitempty"`     // degrees, exclusive
	CornerMaxAngle     *float64 `json:"corner_max_angle,omitempty"`     // degrees, exclusive

	// Replay params
	FrameInterval *string `json:"frame_interval,omitempty"` // duration string like "16ms"

	Matchers []MatcherConfig `json:"matchers,omitempty"`
}

// MatcherConfig names a matcher and the shapes it must see, in order.
type MatcherConfig struct {
	Name   string   `json:"name"`
	Shapes []string `json:"shapes"`
}

// MatcherSequence is a MatcherConfig with its shape names resolved.
type MatcherSequence struct {
	Name     string
	Required []shape.Label
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must end
// in .json and the file must be under 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseTuningConfig(data)
}

// ParseTuningConfig decodes and validates JSON config bytes.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. It panics when the file cannot be loaded and is
// meant for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/, cmd/shapecast/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *TuningConfig) Validate() error {
	if err := c.ClassifierParams().Validate(); err != nil {
		return err
	}

	if c.FrameInterval != nil && *c.FrameInterval != "" {
		d, err := time.ParseDuration(*c.FrameInterval)
		if err != nil {
			return fmt.Errorf("invalid frame_interval '%s': %w", *c.FrameInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("frame_interval must be positive, got %s", d)
		}
	}

	seen := make(map[string]bool, len(c.Matchers))
	for i, m := range c.Matchers {
		if m.Name == "" {
			return fmt.Errorf("matchers[%d]: name is required", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("matchers[%d]: duplicate name %q", i, m.Name)
		}
		seen[m.Name] = true
		if _, err := parseShapes(m.Shapes); err != nil {
			return fmt.Errorf("matchers[%d] %q: %w", i, m.Name, err)
		}
	}
	return nil
}

// parseShapes resolves shape names. Unrecognized is rejected because a
// matcher waiting for it could never advance.
func parseShapes(names []string) ([]shape.Label, error) {
	labels, err := shape.ParseLabels(names)
	if err != nil {
		return nil, err
	}
	for i, l := range labels {
		if !l.Recognized() {
			return nil, fmt.Errorf("entry %d: %s can never be matched", i, l)
		}
	}
	return labels, nil
}

// ClassifierParams returns the classifier thresholds with defaults filled in.
func (c *TuningConfig) ClassifierParams() shape.Params {
	return shape.Params{
		DeviationTolerance: c.GetDeviationTolerance(),
		AxisAngleTolerance: c.GetAxisAngleTolerance(),
		CornerMinAngle:     c.GetCornerMinAngle(),
		CornerMaxAngle:     c.GetCornerMaxAngle(),
	}
}

// MatcherSequences resolves the configured matchers. An entry with no
// shapes yields an empty sequence, which the matcher treats as complete.
func (c *TuningConfig) MatcherSequences() ([]MatcherSequence, error) {
	out := make([]MatcherSequence, 0, len(c.Matchers))
	for i, m := range c.Matchers {
		labels, err := parseShapes(m.Shapes)
		if err != nil {
			return nil, fmt.Errorf("matchers[%d] %q: %w", i, m.Name, err)
		}
		out = append(out, MatcherSequence{Name: m.Name, Required: labels})
	}
	return out, nil
}

// GetDeviationTolerance returns the deviation_tolerance value or the default.
func (c *TuningConfig) GetDeviationTolerance() float64 {
	if c.DeviationTolerance == nil {
		return shape.DefaultDeviationTolerance
	}
	return *c.DeviationTolerance
}

// GetAxisAngleTolerance returns the axis_angle_tolerance value or the default.
func (c *TuningConfig) GetAxisAngleTolerance() float64 {
	if c.AxisAngleTolerance == nil {
		return shape.DefaultAxisAngleTolerance
	}
	return *c.AxisAngleTolerance
}

// GetCornerMinAngle returns the corner_min_angle value or the default.
func (c *TuningConfig) GetCornerMinAngle() float64 {
	if c.CornerMinAngle == nil {
		return shape.DefaultCornerMinAngle
	}
	return *c.CornerMinAngle
}

// GetCornerMaxAngle returns the corner_max_angle value or the default.
func (c *TuningConfig) GetCornerMaxAngle() float64 {
	if c.CornerMaxAngle == nil {
		return shape.DefaultCornerMaxAngle
	}
	return *c.CornerMaxAngle
}

// GetFrameInterval parses and returns the FrameInterval as a time.Duration.
func (c *TuningConfig) GetFrameInterval() time.Duration {
	if c.FrameInterval == nil || *c.FrameInterval == "" {
		return 16 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.FrameInterval)
	if err != nil || d <= 0 {
		return 16 * time.Millisecond // default on parse error
	}
	return d
}
