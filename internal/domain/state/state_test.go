package state_test

import (
	"sync"
	"testing"
	"time"

	"github.com/okian/shipboard/internal/domain/state"
	"github.com/okian/shipboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestState_IncrementAndRead(t *testing.T) {
	Convey("Given a fresh state", t, func() {
		s := state.New(types.DeploymentInfo{Version: "1.0.0"})

		Convey("Then the counter should start at zero", func() {
			So(s.Count(), ShouldEqual, 0)
		})

		Convey("When incrementing sequentially", func() {
			first := s.IncrementAndRead()
			second := s.IncrementAndRead()
			third := s.IncrementAndRead()

			Convey("Then each call should return the new value", func() {
				So(first, ShouldEqual, 1)
				So(second, ShouldEqual, 2)
				So(third, ShouldEqual, 3)
				So(s.Count(), ShouldEqual, 3)
			})
		})

		Convey("When many goroutines increment concurrently", func() {
			const workers = 64
			const perWorker = 500

			var wg sync.WaitGroup
			seen := make([][]int64, workers)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					values := make([]int64, 0, perWorker)
					for i := 0; i < perWorker; i++ {
						values = append(values, s.IncrementAndRead())
					}
					seen[w] = values
				}(w)
			}
			wg.Wait()

			Convey("Then no increment should be lost", func() {
				So(s.Count(), ShouldEqual, workers*perWorker)
			})

			Convey("And every returned value should be unique", func() {
				unique := make(map[int64]struct{}, workers*perWorker)
				for _, values := range seen {
					for _, v := range values {
						unique[v] = struct{}{}
					}
				}
				So(len(unique), ShouldEqual, workers*perWorker)
			})

			Convey("And values seen by one goroutine should be strictly increasing", func() {
				for _, values := range seen {
					for i := 1; i < len(values); i++ {
						So(values[i], ShouldBeGreaterThan, values[i-1])
					}
				}
			})
		})
	})
}

func TestState_DeploymentInfo(t *testing.T) {
	Convey("Given state created with deployment metadata", t, func() {
		deployedAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
		info := types.DeploymentInfo{
			Version:     "1.2.3",
			DeployedAt:  deployedAt,
			Environment: "staging",
			GitCommit:   "abc123",
			BuildNumber: "42",
		}
		s := state.New(info)

		Convey("When the caller mutates its own copy", func() {
			info.Environment = "production"

			Convey("Then the stored metadata should be unaffected", func() {
				So(s.DeploymentInfo().Environment, ShouldEqual, "staging")
			})
		})

		Convey("When reading metadata after increments", func() {
			s.IncrementAndRead()

			Convey("Then it should be unchanged", func() {
				got := s.DeploymentInfo()
				So(got.Version, ShouldEqual, "1.2.3")
				So(got.DeployedAt, ShouldEqual, deployedAt)
				So(got.GitCommit, ShouldEqual, "abc123")
				So(got.BuildNumber, ShouldEqual, "42")
			})
		})
	})
}
