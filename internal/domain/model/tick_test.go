package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/posefight/internal/domain/action"
	model "github.com/okian/posefight/internal/domain/model"
	"github.com/okian/posefight/internal/domain/pose"
	"github.com/smartystreets/goconvey/convey"
)

func TestTickResult(t *testing.T) {
	convey.Convey("Given a tick where PLAYER_2 punches", t, func() {
		r := model.TickResult{
			Tick: 7,
			At:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Players: [2]model.PlayerState{
				{Role: pose.Player1, Connected: true, Present: true, Action: action.Idle, State: action.Active, Health: 99},
				{Role: pose.Player2, Connected: true, Present: true, Action: action.PunchRight, State: action.Cooldown, Health: 100, Landed: true},
			},
			Winner: pose.RoleNone,
		}

		convey.Convey("Then lookups go by role", func() {
			convey.So(r.Player(pose.Player2).Action, convey.ShouldEqual, action.PunchRight)
			convey.So(r.Player(pose.Player1).Health, convey.ShouldEqual, 99)
			convey.So(r.Player(pose.RoleNone), convey.ShouldResemble, model.PlayerState{})
			convey.So(r.Actions(), convey.ShouldResemble, []action.Action{action.PunchRight})
		})

		convey.Convey("Then lookups work on a returned value", func() {
			latest := func() model.TickResult { return r }
			convey.So(latest().Player(pose.Player2).Landed, convey.ShouldBeTrue)
			convey.So(latest().Actions(), convey.ShouldHaveLength, 1)
		})

		convey.Convey("Then it encodes roles and actions as text", func() {
			data, err := json.Marshal(r)
			convey.So(err, convey.ShouldBeNil)
			s := string(data)
			convey.So(s, convey.ShouldContainSubstring, `"role":"PLAYER_2"`)
			convey.So(s, convey.ShouldContainSubstring, `"action":"PUNCH_RIGHT"`)
			convey.So(s, convey.ShouldContainSubstring, `"winner":"NONE"`)
			convey.So(s, convey.ShouldContainSubstring, `"tick":7`)
		})
	})

	convey.Convey("Given an empty tick", t, func() {
		r := model.TickResult{}

		convey.Convey("Then no actions are reported", func() {
			convey.So(r.Actions(), convey.ShouldBeEmpty)
		})
	})
}
