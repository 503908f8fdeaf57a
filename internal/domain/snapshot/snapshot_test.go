package snapshot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/shipboard/internal/domain/snapshot"
	"github.com/okian/shipboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeProbe struct {
	cpu    float64
	mem    snapshot.Memory
	cpuErr error
	memErr error
	calls  int
}

func (f *fakeProbe) CPUPercent(context.Context) (float64, error) {
	f.calls++
	return f.cpu, f.cpuErr
}

func (f *fakeProbe) Memory(context.Context) (snapshot.Memory, error) {
	f.calls++
	return f.mem, f.memErr
}

func TestFormatUptime(t *testing.T) {
	Convey("Given durations since deployment", t, func() {
		Convey("Then 2h15m should read 2h 15m", func() {
			So(snapshot.FormatUptime(2*time.Hour+15*time.Minute), ShouldEqual, "2h 15m")
		})

		Convey("And seconds should be truncated", func() {
			So(snapshot.FormatUptime(59*time.Second), ShouldEqual, "0h 0m")
			So(snapshot.FormatUptime(time.Hour+time.Minute+59*time.Second), ShouldEqual, "1h 1m")
		})

		Convey("And hours should not roll over into days", func() {
			So(snapshot.FormatUptime(26*time.Hour+3*time.Minute), ShouldEqual, "26h 3m")
		})

		Convey("And negative durations should clamp to zero", func() {
			So(snapshot.FormatUptime(-5*time.Minute), ShouldEqual, "0h 0m")
		})
	})
}

func TestResponseTimeEstimate(t *testing.T) {
	Convey("Given CPU percentages", t, func() {
		So(snapshot.ResponseTimeEstimate(0), ShouldEqual, 50.0)
		So(snapshot.ResponseTimeEstimate(25), ShouldEqual, 52.5)
		So(snapshot.ResponseTimeEstimate(100), ShouldEqual, 60.0)
	})
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a builder over a healthy probe", t, func() {
		probe := &fakeProbe{
			cpu: 30,
			mem: snapshot.Memory{UsedPercent: 45.5, Used: 3 << 30, Total: 8 << 30},
		}
		b := snapshot.NewBuilder(probe)
		deployedAt := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
		info := types.DeploymentInfo{DeployedAt: deployedAt, Environment: "staging"}
		now := deployedAt.Add(2*time.Hour + 15*time.Minute)

		Convey("When building a snapshot", func() {
			snap, err := b.Build(context.Background(), 17, info, now)

			Convey("Then every field should be populated", func() {
				So(err, ShouldBeNil)
				So(snap.CPUPercent, ShouldEqual, 30)
				So(snap.MemoryPercent, ShouldEqual, 45.5)
				So(snap.MemoryUsed, ShouldEqual, uint64(3<<30))
				So(snap.MemoryTotal, ShouldEqual, uint64(8<<30))
				So(snap.RequestCount, ShouldEqual, 17)
				So(snap.Uptime, ShouldEqual, "2h 15m")
				So(snap.ResponseTimeEstimate, ShouldEqual, 53.0)
				So(snap.Timestamp, ShouldEqual, now)
			})
		})
	})

	Convey("Given a probe whose CPU query fails", t, func() {
		probe := &fakeProbe{cpuErr: errors.New("platform API unavailable")}
		b := snapshot.NewBuilder(probe)

		Convey("When building a snapshot", func() {
			snap, err := b.Build(context.Background(), 1, types.DeploymentInfo{}, time.Now())

			Convey("Then a ResourceQueryError for cpu should be returned", func() {
				var rqe *snapshot.ResourceQueryError
				So(errors.As(err, &rqe), ShouldBeTrue)
				So(rqe.Resource, ShouldEqual, snapshot.ResourceCPU)
				So(errors.Is(err, snapshot.ErrResourceQuery), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "platform API unavailable")
				So(snap, ShouldResemble, types.MetricsSnapshot{})
			})

			Convey("And memory should not be queried", func() {
				So(probe.calls, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a probe whose memory query fails", t, func() {
		cause := errors.New("no /proc/meminfo")
		b := snapshot.NewBuilder(&fakeProbe{cpu: 10, memErr: cause})

		Convey("When building a snapshot", func() {
			_, err := b.Build(context.Background(), 1, types.DeploymentInfo{}, time.Now())

			Convey("Then the error should name memory and wrap the cause", func() {
				var rqe *snapshot.ResourceQueryError
				So(errors.As(err, &rqe), ShouldBeTrue)
				So(rqe.Resource, ShouldEqual, snapshot.ResourceMemory)
				So(errors.Is(err, cause), ShouldBeTrue)
			})
		})
	})
}
