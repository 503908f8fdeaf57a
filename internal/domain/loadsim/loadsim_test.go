package loadsim_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/shipboard/internal/domain/loadsim"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulator_Run(t *testing.T) {
	Convey("Given a simulator with a small loop", t, func() {
		sim := loadsim.New(loadsim.WithIterations(50_000))

		Convey("When running it", func() {
			elapsed, err := sim.Run(context.Background())

			Convey("Then it should complete with a non-negative duration", func() {
				So(err, ShouldBeNil)
				So(elapsed, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})

		Convey("When running with an already cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			elapsed, err := sim.Run(ctx)

			Convey("Then it should stop with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(elapsed, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})
	})

	Convey("Given option edge cases", t, func() {
		Convey("Then the default loop size should be one million", func() {
			So(loadsim.New().Iterations(), ShouldEqual, 1_000_000)
		})

		Convey("And negative sizes should be ignored", func() {
			So(loadsim.New(loadsim.WithIterations(-1)).Iterations(), ShouldEqual, 1_000_000)
		})

		Convey("And a zero-size loop should return immediately", func() {
			elapsed, err := loadsim.New(loadsim.WithIterations(0)).Run(context.Background())
			So(err, ShouldBeNil)
			So(elapsed, ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}
