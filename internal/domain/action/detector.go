package action

import (
	"time"

	"github.com/okian/posefight/internal/domain/geometry"
	"github.com/okian/posefight/internal/domain/pose"
)

// Detector classifies successive frames of one player. It is owned by the
// game loop and is not safe for concurrent use.
type Detector struct {
	elbowExtension float64
	punchVelocity  float64
	cooldown       float64 // seconds

	prevFrame  *pose.Frame
	prevTime   time.Time
	remaining  float64 // cooldown seconds left
	lastAction Action
}

// Reading is the measurement a Detector took from one frame.
type Reading struct {
	LeftElbow  float64 // degrees
	RightElbow float64 // degrees
	LeftWrist  float64 // units per second
	RightWrist float64 // units per second
}

// NewDetector returns a detector in the ACTIVE state with no history.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		elbowExtension: DefaultElbowExtension,
		punchVelocity:  DefaultPunchVelocity,
		cooldown:       DefaultCooldown.Seconds(),
		lastAction:     Idle,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies f observed at now.
//
// A nil frame, or one too short to hold both arms, returns Idle and leaves
// every piece of state alone, including the cooldown clock: a dropout
// freezes the detector until poses resume.
func (d *Detector) Detect(f *pose.Frame, now time.Time) Action {
	a, _ := d.DetectWithReading(f, now)
	return a
}

// DetectWithReading is Detect that also returns the angles and speeds the
// decision was based on.
func (d *Detector) DetectWithReading(f *pose.Frame, now time.Time) (Action, Reading) {
	if f == nil || f.Len() < pose.ArmJoints {
		return Idle, Reading{}
	}

	dt := now.Sub(d.prevTime)
	if d.prevTime.IsZero() || dt <= 0 {
		dt = minStep
	}
	step := dt.Seconds()

	r := Reading{
		LeftElbow:  elbowAngle(f, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist),
		RightElbow: elbowAngle(f, pose.RightShoulder, pose.RightElbow, pose.RightWrist),
	}
	if d.prevFrame != nil {
		r.LeftWrist = wristSpeed(d.prevFrame, f, pose.LeftWrist, step)
		r.RightWrist = wristSpeed(d.prevFrame, f, pose.RightWrist, step)
	}

	d.prevFrame = f
	d.prevTime = now

	if d.remaining > 0 {
		d.remaining -= step
		// A cooldown that runs out on this call lets the same call fire.
		if d.remaining > 0 {
			d.lastAction = Idle
			return Idle, r
		}
	}

	a := Idle
	switch {
	case r.LeftElbow > d.elbowExtension && r.LeftWrist > d.punchVelocity:
		a = PunchLeft
	case r.RightElbow > d.elbowExtension && r.RightWrist > d.punchVelocity:
		a = PunchRight
	}
	if a != Idle {
		d.remaining = d.cooldown
	}
	d.lastAction = a
	return a, r
}

// State reports COOLDOWN while actions are suppressed, ACTIVE otherwise.
func (d *Detector) State() State {
	if d.remaining > 0 {
		return Cooldown
	}
	return Active
}

// LastAction returns the label produced by the last non-nil frame.
func (d *Detector) LastAction() Action {
	return d.lastAction
}

// Reset forgets history and cooldown.
func (d *Detector) Reset() {
	d.prevFrame = nil
	d.prevTime = time.Time{}
	d.remaining = 0
	d.lastAction = Idle
}

func point(f *pose.Frame, joint int) geometry.Point {
	x, y := f.Point(joint)
	return geometry.Point{X: x, Y: y}
}

func elbowAngle(f *pose.Frame, shoulder, elbow, wrist int) float64 {
	return geometry.JointAngle(point(f, shoulder), point(f, elbow), point(f, wrist))
}

func wristSpeed(prev, cur *pose.Frame, wrist int, step float64) float64 {
	return geometry.Distance(point(prev, wrist), point(cur, wrist)) / step
}
