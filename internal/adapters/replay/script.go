// Package replay turns YAML choreography scripts into pose frame sequences
// a sender can stream without a camera.
package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/posefight/internal/domain/pose"
)

// DefaultFPS is used when a script leaves fps unset.
const DefaultFPS = 30

// Script is a parsed choreography.
//
//	fps: 30
//	loop: true
//	offset_x: -0.1
//	keyframes:
//	  - {pose: guard, hold: 15}
//	  - {pose: jab_left, hold: 3}
//	  - hold: 5
//	    keypoints: [{x: 0.5, y: 0.5, z: 0, v: 1}]
type Script struct {
	FPS       int        `yaml:"fps"`
	Loop      bool       `yaml:"loop"`
	OffsetX   float64    `yaml:"offset_x"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe holds one pose for Hold consecutive frames. Exactly one of
// Pose (a preset name) and Keypoints must be set.
type Keyframe struct {
	Hold      int        `yaml:"hold"`
	Pose      string     `yaml:"pose,omitempty"`
	Keypoints []Keypoint `yaml:"keypoints,omitempty"`
}

// Keypoint mirrors the wire record field names.
type Keypoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	V float64 `yaml:"v"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if s.FPS < 0 {
		return fmt.Errorf("%w: fps must not be negative, got %d", ErrInvalidScript, s.FPS)
	}
	if s.FPS == 0 {
		s.FPS = DefaultFPS
	}
	if len(s.Keyframes) == 0 {
		return fmt.Errorf("%w: no keyframes", ErrInvalidScript)
	}
	for i := range s.Keyframes {
		kf := &s.Keyframes[i]
		if kf.Hold < 0 {
			return fmt.Errorf("%w: keyframe %d: negative hold", ErrInvalidScript, i)
		}
		if kf.Hold == 0 {
			kf.Hold = 1
		}
		switch {
		case kf.Pose != "" && len(kf.Keypoints) > 0:
			return fmt.Errorf("%w: keyframe %d: both pose and keypoints set", ErrInvalidScript, i)
		case kf.Pose == "" && len(kf.Keypoints) == 0:
			return fmt.Errorf("%w: keyframe %d: neither pose nor keypoints set", ErrInvalidScript, i)
		case kf.Pose != "":
			if _, ok := Preset(kf.Pose); !ok {
				return fmt.Errorf("%w: keyframe %d: unknown preset %q (want one of %v)",
					ErrInvalidScript, i, kf.Pose, PresetNames())
			}
		}
	}
	return nil
}

// Frames expands the keyframes into one frame per tick, shifted by OffsetX.
func (s *Script) Frames() []*pose.Frame {
	var out []*pose.Frame
	for _, kf := range s.Keyframes {
		f := s.shift(kf.frame())
		for i := 0; i < kf.Hold; i++ {
			out = append(out, f)
		}
	}
	return out
}

func (kf Keyframe) frame() *pose.Frame {
	if kf.Pose != "" {
		f, _ := Preset(kf.Pose)
		return f
	}
	kps := make([]pose.Keypoint, len(kf.Keypoints))
	for i, k := range kf.Keypoints {
		kps[i] = pose.Keypoint{X: k.X, Y: k.Y, Z: k.Z, Visibility: k.V}
	}
	return pose.NewFrame(kps)
}

func (s *Script) shift(f *pose.Frame) *pose.Frame {
	if f == nil || s.OffsetX == 0 {
		return f
	}
	kps := f.Keypoints()
	for i := range kps {
		kps[i].X += s.OffsetX
	}
	return pose.NewFrame(kps)
}
