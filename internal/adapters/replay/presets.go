package replay

import (
	"sort"

	"github.com/okian/posefight/internal/domain/pose"
)

// Preset names understood in a keyframe's pose field.
const (
	PresetGuard    = "guard"
	PresetJabLeft  = "jab_left"
	PresetJabRight = "jab_right"
	PresetEmpty    = "empty"
)

type arm struct {
	elbow, wrist [2]float64
}

// Guard keeps the elbows forward at shoulder height so that a jab reaches
// full extension while the smoothed wrist is still fast.
var (
	leftGuard  = arm{elbow: [2]float64{0.68, 0.38}, wrist: [2]float64{0.62, 0.40}}
	rightGuard = arm{elbow: [2]float64{0.32, 0.38}, wrist: [2]float64{0.38, 0.40}}
	leftJab    = arm{elbow: [2]float64{0.70, 0.35}, wrist: [2]float64{0.82, 0.35}}
	rightJab   = arm{elbow: [2]float64{0.30, 0.35}, wrist: [2]float64{0.18, 0.35}}
)

// Joint positions of a fighter standing square to the camera. Arms are
// filled in per preset.
var body = map[int][2]float64{
	pose.Nose:          {0.50, 0.20},
	1:                  {0.52, 0.18},
	2:                  {0.53, 0.18},
	3:                  {0.54, 0.18},
	4:                  {0.48, 0.18},
	5:                  {0.47, 0.18},
	6:                  {0.46, 0.18},
	7:                  {0.56, 0.19},
	8:                  {0.44, 0.19},
	9:                  {0.52, 0.23},
	10:                 {0.48, 0.23},
	pose.LeftShoulder:  {0.58, 0.35},
	pose.RightShoulder: {0.42, 0.35},
	pose.LeftHip:       {0.56, 0.60},
	pose.RightHip:      {0.44, 0.60},
	pose.LeftKnee:      {0.57, 0.75},
	pose.RightKnee:     {0.43, 0.75},
	pose.LeftAnkle:     {0.57, 0.90},
	pose.RightAnkle:    {0.43, 0.90},
	29:                 {0.58, 0.92},
	30:                 {0.42, 0.92},
	31:                 {0.60, 0.93},
	32:                 {0.40, 0.93},
}

// Hand joints (pinky, index, thumb) sit just beyond the wrist.
var (
	leftHand  = [3]int{17, 19, 21}
	rightHand = [3]int{18, 20, 22}
)

func skeleton(left, right arm) *pose.Frame {
	kps := make([]pose.Keypoint, pose.NumJoints)
	put := func(joint int, xy [2]float64) {
		kps[joint] = pose.Keypoint{X: xy[0], Y: xy[1], Visibility: 1}
	}
	for joint, xy := range body {
		put(joint, xy)
	}
	put(pose.LeftElbow, left.elbow)
	put(pose.LeftWrist, left.wrist)
	put(pose.RightElbow, right.elbow)
	put(pose.RightWrist, right.wrist)
	for i, joint := range leftHand {
		put(joint, [2]float64{left.wrist[0] + 0.01*float64(i-1), left.wrist[1] - 0.02})
	}
	for i, joint := range rightHand {
		put(joint, [2]float64{right.wrist[0] + 0.01*float64(i-1), right.wrist[1] - 0.02})
	}
	return pose.NewFrame(kps)
}

var presets = map[string]*pose.Frame{
	PresetGuard:    skeleton(leftGuard, rightGuard),
	PresetJabLeft:  skeleton(leftJab, rightGuard),
	PresetJabRight: skeleton(leftGuard, rightJab),
	PresetEmpty:    nil,
}

// Preset returns the named pose. PresetEmpty yields a nil frame.
func Preset(name string) (*pose.Frame, bool) {
	f, ok := presets[name]
	return f, ok
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
