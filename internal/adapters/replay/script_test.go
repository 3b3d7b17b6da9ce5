package replay_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/posefight/internal/adapters/replay"
	"github.com/okian/posefight/internal/domain/action"
	"github.com/okian/posefight/internal/domain/pose"
	. "github.com/smartystreets/goconvey/convey"
)

const sparring = `
fps: 20
loop: true
offset_x: 0.05
keyframes:
  - {pose: guard, hold: 3}
  - {pose: jab_left}
  - {pose: empty, hold: 2}
  - hold: 2
    keypoints:
      - {x: 0.1, y: 0.2, z: 0.3, v: 0.9}
`

func TestParse(t *testing.T) {
	Convey("Given a sparring script", t, func() {
		s, err := replay.Parse([]byte(sparring))
		So(err, ShouldBeNil)

		Convey("Then the header fields are read", func() {
			So(s.FPS, ShouldEqual, 20)
			So(s.Loop, ShouldBeTrue)
			So(s.Keyframes, ShouldHaveLength, 4)
			So(s.Keyframes[1].Hold, ShouldEqual, 1)
		})

		Convey("Then Frames expands holds in order", func() {
			frames := s.Frames()
			So(frames, ShouldHaveLength, 8)
			So(frames[0], ShouldPointTo, frames[2])
			So(frames[3].Len(), ShouldEqual, pose.NumJoints)
			So(frames[4], ShouldBeNil)
			So(frames[5], ShouldBeNil)
			So(frames[6].Len(), ShouldEqual, 1)
		})

		Convey("Then the offset shifts x only", func() {
			guard, _ := replay.Preset(replay.PresetGuard)
			shifted := s.Frames()[0]
			So(shifted.At(pose.Nose).X, ShouldAlmostEqual, guard.At(pose.Nose).X+0.05)
			So(shifted.At(pose.Nose).Y, ShouldEqual, guard.At(pose.Nose).Y)

			kp := s.Frames()[6].At(0)
			So(kp.X, ShouldAlmostEqual, 0.15)
			So(kp.Visibility, ShouldEqual, 0.9)
		})
	})

	Convey("Given a script without fps", t, func() {
		s, err := replay.Parse([]byte("keyframes: [{pose: guard}]"))

		Convey("Then the default rate applies", func() {
			So(err, ShouldBeNil)
			So(s.FPS, ShouldEqual, replay.DefaultFPS)
			So(s.Loop, ShouldBeFalse)
		})
	})

	Convey("Given broken scripts", t, func() {
		cases := []struct {
			name string
			doc  string
		}{
			{"malformed yaml", "keyframes: [\n"},
			{"no keyframes", "fps: 10"},
			{"negative fps", "fps: -1\nkeyframes: [{pose: guard}]"},
			{"negative hold", "keyframes: [{pose: guard, hold: -2}]"},
			{"unknown preset", "keyframes: [{pose: uppercut}]"},
			{"empty keyframe", "keyframes: [{hold: 3}]"},
			{"pose and keypoints", "keyframes: [{pose: guard, keypoints: [{x: 1}]}]"},
		}
		for _, tc := range cases {
			tc := tc
			Convey("Then "+tc.name+" is rejected", func() {
				_, err := replay.Parse([]byte(tc.doc))
				So(errors.Is(err, replay.ErrInvalidScript), ShouldBeTrue)
			})
		}
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a script on disk", t, func() {
		path := filepath.Join(t.TempDir(), "jab.yaml")
		So(os.WriteFile(path, []byte(sparring), 0o600), ShouldBeNil)

		Convey("Then Load parses it", func() {
			s, err := replay.Load(path)
			So(err, ShouldBeNil)
			So(s.FPS, ShouldEqual, 20)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := replay.Load(filepath.Join(t.TempDir(), "nope.yaml"))

		Convey("Then Load fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPresets(t *testing.T) {
	Convey("Given the preset poses", t, func() {
		guard, _ := replay.Preset(replay.PresetGuard)
		jabL, _ := replay.Preset(replay.PresetJabLeft)
		jabR, _ := replay.Preset(replay.PresetJabRight)
		empty, ok := replay.Preset(replay.PresetEmpty)

		Convey("Then empty means no pose", func() {
			So(ok, ShouldBeTrue)
			So(empty, ShouldBeNil)
			So(replay.PresetNames(), ShouldResemble, []string{"empty", "guard", "jab_left", "jab_right"})
		})

		Convey("Then guard to jab reads as a punch on the matching side", func() {
			start := time.Unix(0, 0)
			step := time.Second / 30

			d := action.NewDetector()
			So(d.Detect(guard, start), ShouldEqual, action.Idle)
			So(d.Detect(jabL, start.Add(step)), ShouldEqual, action.PunchLeft)

			d = action.NewDetector()
			So(d.Detect(guard, start), ShouldEqual, action.Idle)
			So(d.Detect(jabR, start.Add(step)), ShouldEqual, action.PunchRight)
		})

		Convey("Then holding the guard stays idle", func() {
			start := time.Unix(0, 0)
			d := action.NewDetector()
			for i := 0; i < 10; i++ {
				So(d.Detect(guard, start.Add(time.Duration(i)*time.Second/30)), ShouldEqual, action.Idle)
			}
		})
	})
}
