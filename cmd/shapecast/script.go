package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/shapecast/internal/capture"
	"github.com/banshee-data/shapecast/internal/stroke"
)

// Script is a recorded sequence of pointer gestures in screen space.
type Script struct {
	Viewport *ViewportConfig `json:"viewport,omitempty"`
	Gestures []Gesture       `json:"gestures"`
}

// ViewportConfig mirrors capture.Viewport in JSON form.
type ViewportConfig struct {
	Origin        [2]float64 `json:"origin"`
	PixelsPerUnit float64    `json:"pixels_per_unit"`
	FlipY         bool       `json:"flip_y"`
}

// Gesture is one press, drag and release. The first point is sampled on the
// press frame, each later point on its own held frame, and the release
// happens on the frame after the last point. IdleFrames pass with the
// pointer up before the next gesture.
type Gesture struct {
	Name       string       `json:"name"`
	Points     [][2]float64 `json:"points"`
	IdleFrames int          `json:"idle_frames,omitempty"`
}

// Transform returns the screen to world mapping for the script.
func (s *Script) Transform() capture.Transform {
	if s.Viewport == nil {
		return capture.IdentityTransform{}
	}
	return capture.Viewport{
		Origin:        stroke.Pt(s.Viewport.Origin[0], s.Viewport.Origin[1]),
		PixelsPerUnit: s.Viewport.PixelsPerUnit,
		FlipY:         s.Viewport.FlipY,
	}
}

// Validate rejects gestures the replay loop cannot drive.
func (s *Script) Validate() error {
	for i, g := range s.Gestures {
		if len(g.Points) == 0 {
			return fmt.Errorf("gesture %d (%q): at least one point is required", i, g.Name)
		}
		if g.IdleFrames < 0 {
			return fmt.Errorf("gesture %d (%q): idle_frames must be non-negative, got %d", i, g.Name, g.IdleFrames)
		}
	}
	return nil
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("script file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// frames expands the script into per-frame pointer input.
func (s *Script) frames() []capture.FrameInput {
	var out []capture.FrameInput
	for _, g := range s.Gestures {
		for i, p := range g.Points {
			out = append(out, capture.FrameInput{
				Pressed: i == 0,
				Held:    true,
				Screen:  stroke.Pt(p[0], p[1]),
			})
		}
		out = append(out, capture.FrameInput{Released: true})
		for i := 0; i < g.IdleFrames; i++ {
			out = append(out, capture.FrameInput{})
		}
	}
	return out
}
