package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/posefight/internal/adapters/mq/queue"
	"github.com/okian/posefight/internal/adapters/replay"
	"github.com/okian/posefight/internal/adapters/store"
	service "github.com/okian/posefight/internal/app"
	"github.com/okian/posefight/internal/domain/action"
	"github.com/okian/posefight/internal/domain/model"
	"github.com/okian/posefight/internal/domain/pose"
	"github.com/okian/posefight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

type nopConn struct{}

func (nopConn) Close() error { return nil }

func preset(name string) *pose.Frame {
	f, ok := replay.Preset(name)
	if !ok {
		panic("unknown preset " + name)
	}
	return f
}

var (
	epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	frame = time.Second / 30
)

// lobby returns a store with both roles held by fake connections.
func lobby() *store.PoseStore {
	st := store.New()
	_, _ = st.Claim(nopConn{})
	_, _ = st.Claim(nopConn{})
	return st
}

// play steps the service once per frame with P1 doing p1 and P2 holding
// p2, starting at tick index from.
func play(svc *service.Service, st *store.PoseStore, from, n int, p1, p2 *pose.Frame) []model.TickResult {
	out := make([]model.TickResult, 0, n)
	for i := from; i < from+n; i++ {
		_ = st.Set(pose.Player1, p1)
		_ = st.Set(pose.Player2, p2)
		out = append(out, svc.Step(epoch.Add(time.Duration(i)*frame)))
	}
	return out
}

func punches(results []model.TickResult, role pose.Role) int {
	n := 0
	for i := range results {
		if results[i].Player(role).Action.IsPunch() {
			n++
		}
	}
	return n
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it is idle with full health", func() {
			latest := svc.Latest()
			So(latest.Player(pose.Player1).Health, ShouldEqual, 100)
			So(latest.Player(pose.Player2).Action, ShouldEqual, action.Idle)
			So(latest.Winner, ShouldEqual, pose.RoleNone)
			So(svc.Addr(), ShouldBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["tick_hz"], ShouldEqual, 30)
			So(stats["session_id"], ShouldNotBeEmpty)
		})
	})
}

func TestService_Step(t *testing.T) {
	Convey("Given a service with an empty lobby", t, func() {
		svc := service.New(service.WithStore(store.New()))

		Convey("When a tick runs", func() {
			res := svc.Step(epoch)

			Convey("Then nobody is present and nothing happens", func() {
				So(res.Tick, ShouldEqual, 1)
				for _, role := range pose.Roles {
					p := res.Player(role)
					So(p.Connected, ShouldBeFalse)
					So(p.Present, ShouldBeFalse)
					So(p.Action, ShouldEqual, action.Idle)
				}
				So(svc.Step(epoch.Add(frame)).Tick, ShouldEqual, 2)
			})
		})
	})

	Convey("Given two fighters on default tuning", t, func() {
		st := lobby()
		svc := service.New(service.WithStore(st))
		guard := preset(replay.PresetGuard)

		warmup := play(svc, st, 0, 10, guard, guard)

		Convey("Then holding the guard is idle", func() {
			So(punches(warmup, pose.Player1), ShouldEqual, 0)
			So(punches(warmup, pose.Player2), ShouldEqual, 0)
			So(warmup[9].Player(pose.Player1).Present, ShouldBeTrue)
			So(warmup[9].Player(pose.Player1).Connected, ShouldBeTrue)
		})

		Convey("When PLAYER_1 throws a left jab", func() {
			jab := play(svc, st, 10, 10, preset(replay.PresetJabLeft), guard)

			Convey("Then exactly one left punch lands on PLAYER_2", func() {
				So(punches(jab, pose.Player1), ShouldEqual, 1)
				So(punches(jab, pose.Player2), ShouldEqual, 0)

				for _, r := range jab {
					p := r.Player(pose.Player1)
					if p.Action.IsPunch() {
						So(p.Action, ShouldEqual, action.PunchLeft)
						So(p.Landed, ShouldBeTrue)
						So(p.State, ShouldEqual, action.Cooldown)
					}
				}
				last := jab[len(jab)-1]
				So(last.Player(pose.Player2).Health, ShouldEqual, 99)
				So(last.Player(pose.Player1).Health, ShouldEqual, 100)
				So(svc.Latest().Tick, ShouldEqual, last.Tick)
			})
		})
	})

	Convey("Given PLAYER_2 connected but out of frame", t, func() {
		st := lobby()
		svc := service.New(service.WithStore(st), service.WithSmoothing(1e6, 0, 1e6))
		guard := preset(replay.PresetGuard)

		play(svc, st, 0, 3, guard, nil)
		res := play(svc, st, 3, 1, preset(replay.PresetJabRight), nil)[0]

		Convey("Then the punch is seen but does not land", func() {
			So(res.Player(pose.Player1).Action, ShouldEqual, action.PunchRight)
			So(res.Player(pose.Player1).Landed, ShouldBeFalse)
			So(res.Player(pose.Player2).Present, ShouldBeFalse)
			So(res.Player(pose.Player2).Connected, ShouldBeTrue)
			So(res.Player(pose.Player2).Health, ShouldEqual, 100)
		})
	})
}

func TestService_ShortFrames(t *testing.T) {
	Convey("Given PLAYER_1 streaming a frame with one keypoint", t, func() {
		st := lobby()
		svc := service.New(service.WithStore(st))
		guard := preset(replay.PresetGuard)
		short := pose.NewFrame([]pose.Keypoint{{X: 0.1, Y: 0.2, Visibility: 1}})

		var res model.TickResult
		So(func() { res = play(svc, st, 0, 1, short, guard)[0] }, ShouldNotPanic)

		Convey("Then the tick treats it as no pose", func() {
			p := res.Player(pose.Player1)
			So(p.Connected, ShouldBeTrue)
			So(p.Present, ShouldBeFalse)
			So(p.Action, ShouldEqual, action.Idle)
			So(res.Player(pose.Player2).Present, ShouldBeTrue)
		})

		Convey("And full frames afterwards are classified as usual", func() {
			next := play(svc, st, 1, 3, guard, guard)
			So(next[2].Player(pose.Player1).Present, ShouldBeTrue)
			So(punches(next, pose.Player1), ShouldEqual, 0)
		})
	})
}

func TestService_SlotHandover(t *testing.T) {
	Convey("Given PLAYER_1 holding a guard", t, func() {
		st := lobby()
		svc := service.New(service.WithStore(st), service.WithSmoothing(1e6, 0, 1e6))
		guard := preset(replay.PresetGuard)
		jab := preset(replay.PresetJabLeft)
		play(svc, st, 0, 3, guard, guard)

		Convey("When the same player throws a jab", func() {
			res := play(svc, st, 3, 1, jab, guard)[0]

			Convey("Then it is a punch", func() {
				So(res.Player(pose.Player1).Action, ShouldEqual, action.PunchLeft)
			})
		})

		Convey("When another player takes the slot between two ticks", func() {
			st.Release(pose.Player1, nopConn{})
			role, err := st.Claim(nopConn{})
			So(err, ShouldBeNil)
			So(role, ShouldEqual, pose.Player1)
			res := play(svc, st, 3, 1, jab, guard)[0]

			Convey("Then the newcomer starts without the previous history", func() {
				p := res.Player(pose.Player1)
				So(p.Connected, ShouldBeTrue)
				So(p.Present, ShouldBeTrue)
				So(p.Action, ShouldEqual, action.Idle)
				So(p.LeftWristSpeed, ShouldEqual, 0)
				So(res.Player(pose.Player2).Health, ShouldEqual, 100)
			})
		})
	})
}

func TestService_Match(t *testing.T) {
	Convey("Given a one-hit match", t, func() {
		st := lobby()
		svc := service.New(
			service.WithStore(st),
			service.WithSmoothing(1e6, 0, 1e6),
			service.WithMatch(1, 1),
		)
		guard := preset(replay.PresetGuard)
		play(svc, st, 0, 2, guard, guard)
		res := play(svc, st, 2, 1, guard, preset(replay.PresetJabLeft))[0]

		Convey("Then PLAYER_2 wins with the first punch", func() {
			So(res.Player(pose.Player2).Action, ShouldEqual, action.PunchLeft)
			So(res.Player(pose.Player1).Health, ShouldEqual, 0)
			So(res.Winner, ShouldEqual, pose.Player2)
			So(svc.GetStats()["winner"], ShouldEqual, "PLAYER_2")
		})

		Convey("When the match is reset", func() {
			svc.ResetMatch()

			Convey("Then health and winner are restored", func() {
				latest := svc.Latest()
				So(latest.Winner, ShouldEqual, pose.RoleNone)
				So(latest.Player(pose.Player1).Health, ShouldEqual, 1)

				next := play(svc, st, 3, 1, guard, guard)[0]
				So(next.Winner, ShouldEqual, pose.RoleNone)
				So(next.Player(pose.Player1).Health, ShouldEqual, 1)
			})
		})
	})
}

func TestService_Feed(t *testing.T) {
	Convey("Given a subscriber", t, func() {
		svc := service.New(service.WithStore(store.New()), service.WithFeedBuffer(2))
		id, q := svc.Subscribe()
		So(svc.GetStats()["subscribers"], ShouldEqual, 1)

		Convey("When ticks are published", func() {
			for i := 0; i < 5; i++ {
				svc.Step(epoch.Add(time.Duration(i) * frame))
			}

			Convey("Then the subscriber keeps the newest ones", func() {
				So(q.Len(), ShouldEqual, 2)
				r, err := q.Next(context.Background())
				So(err, ShouldBeNil)
				So(r.Tick, ShouldEqual, 4)
			})
		})

		Convey("When it unsubscribes", func() {
			svc.Unsubscribe(id)

			Convey("Then its queue is closed", func() {
				So(q.IsClosed(), ShouldBeTrue)
				_, err := q.Next(context.Background())
				So(errors.Is(err, queue.ErrClosed), ShouldBeTrue)
				So(svc.GetStats()["subscribers"], ShouldEqual, 0)
			})
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithListenAddr("127.0.0.1:0"), service.WithTickRate(100))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then it is marked as started and ticking", func() {
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.Addr(), ShouldNotBeNil)
			So(errors.Is(svc.Start(ctx), service.ErrAlreadyStarted), ShouldBeTrue)

			deadline := time.Now().Add(time.Second)
			for svc.Latest().Tick < 3 && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}
			So(svc.Latest().Tick, ShouldBeGreaterThanOrEqualTo, 3)
		})

		Convey("When stopping the service", func() {
			_, q := svc.Subscribe()
			svc.Stop()

			Convey("Then it is stopped and feeds are closed", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
