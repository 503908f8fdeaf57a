package service_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	service "github.com/okian/shipboard/internal/app"
	"github.com/okian/shipboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping host integration test in short mode")
	}
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("host probe is exercised on linux and darwin only")
	}

	Convey("Given a service backed by the real host probe", t, func() {
		svc := service.New(
			service.WithCPUSampleInterval(50*time.Millisecond),
			service.WithSampleInterval(100*time.Millisecond),
			service.WithLoadIterations(100_000),
			service.WithDeploymentInfo(types.DeploymentInfo{Version: "1.0.0", Environment: "staging"}),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("When counting from many goroutines and then snapshotting", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						svc.CountRequest()
					}
				}()
			}
			wg.Wait()

			n := svc.CountRequest()
			snap, err := svc.Snapshot(ctx, n)

			Convey("Then the snapshot should reflect every counted request", func() {
				So(err, ShouldBeNil)
				So(snap.RequestCount, ShouldEqual, 801)
				So(snap.CPUPercent, ShouldBeBetweenOrEqual, 0, 100)
				So(snap.MemoryTotal, ShouldBeGreaterThan, 0)
				So(snap.ResponseTimeEstimate, ShouldBeBetweenOrEqual, 50, 60)
				So(snap.Uptime, ShouldEqual, "0h 0m")
			})
		})

		Convey("When reading system info", func() {
			info := svc.SystemInfo(ctx)

			Convey("Then platform and deployment fields should be present", func() {
				So(info.OS, ShouldNotBeEmpty)
				So(info.GoVersion, ShouldEqual, runtime.Version())
				So(info.DeploymentInfo.Environment, ShouldEqual, "staging")
			})
		})

		Convey("When simulating load", func() {
			res, err := svc.SimulateLoad(ctx)

			Convey("Then it should complete", func() {
				So(err, ShouldBeNil)
				So(res.DurationMS, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})
	})
}
