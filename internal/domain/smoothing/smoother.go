package smoothing

import (
	"time"

	"github.com/okian/posefight/internal/domain/pose"
)

const numFields = 4 // x, y, z, visibility

// Smoother owns one filter per (joint, field) of a single player. It is not
// safe for concurrent use; the game loop owns it.
type Smoother struct {
	minCutoff    float64
	beta         float64
	dCutoff      float64
	onDegenerate func()

	filters [pose.NumJoints][numFields]Filter
}

// New builds a Smoother with every filter in its initial state.
func New(opts ...Option) *Smoother {
	s := &Smoother{
		minCutoff: DefaultMinCutoff,
		beta:      DefaultBeta,
		dCutoff:   DefaultDerivativeCutoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Smooth filters every field of every joint of f sampled at t and returns a
// new frame. A nil frame yields nil and leaves the filters untouched. Joints
// past the canonical table are copied through unfiltered.
func (s *Smoother) Smooth(f *pose.Frame, t time.Time) *pose.Frame {
	if f == nil {
		return nil
	}

	out := f.Keypoints()
	advanced := true
	for j := range out {
		if j >= pose.NumJoints {
			break
		}
		row := &s.filters[j]
		kp := &out[j]
		var ok bool
		kp.X, ok = row[0].Apply(kp.X, t)
		advanced = advanced && ok
		kp.Y, _ = row[1].Apply(kp.Y, t)
		kp.Z, _ = row[2].Apply(kp.Z, t)
		kp.Visibility, _ = row[3].Apply(kp.Visibility, t)
	}
	if !advanced && s.onDegenerate != nil {
		s.onDegenerate()
	}
	return pose.NewFrame(out)
}

// Reset returns every filter to its initial state.
func (s *Smoother) Reset() {
	for j := range s.filters {
		for k := range s.filters[j] {
			s.filters[j][k] = NewFilter(s.minCutoff, s.beta, s.dCutoff)
		}
	}
}
