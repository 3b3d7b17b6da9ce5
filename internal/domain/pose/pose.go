// Package pose contains the body-pose types shared by the wire codec,
// the smoother and the action detector.
package pose

// Canonical joint ids of a 33-point body model.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28

	// NumJoints is the size of the canonical joint table.
	NumJoints = 33

	// ArmJoints is the shortest frame that holds both arms. Shorter frames
	// cannot be classified.
	ArmJoints = RightWrist + 1
)

// Keypoint is one joint estimate. X and Y are normalized to [0,1] relative
// to the capture frame, Z is a relative depth and Visibility a confidence.
type Keypoint struct {
	X          float64
	Y          float64
	Z          float64
	Visibility float64
}

// Frame is an immutable, index-addressed sequence of keypoints.
// A nil *Frame means no pose was detected.
type Frame struct {
	keypoints []Keypoint
}

// NewFrame copies kps into a new Frame. Empty input yields nil so that
// absence is represented the same way everywhere.
func NewFrame(kps []Keypoint) *Frame {
	if len(kps) == 0 {
		return nil
	}
	cp := make([]Keypoint, len(kps))
	copy(cp, kps)
	return &Frame{keypoints: cp}
}

// Len returns the number of keypoints; zero for a nil frame.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keypoints)
}

// At returns keypoint i. It panics when i is out of range, the same as
// indexing a slice: callers rely on the canonical joint indexing.
func (f *Frame) At(i int) Keypoint {
	return f.keypoints[i]
}

// Point returns the planar position of joint i.
func (f *Frame) Point(i int) (x, y float64) {
	kp := f.keypoints[i]
	return kp.X, kp.Y
}

// Keypoints returns a copy of the keypoint sequence.
func (f *Frame) Keypoints() []Keypoint {
	if f == nil {
		return nil
	}
	cp := make([]Keypoint, len(f.keypoints))
	copy(cp, f.keypoints)
	return cp
}

// Equal reports whether both frames hold the same keypoints.
func (f *Frame) Equal(o *Frame) bool {
	if f.Len() != o.Len() {
		return false
	}
	for i := 0; i < f.Len(); i++ {
		if f.keypoints[i] != o.keypoints[i] {
			return false
		}
	}
	return true
}
