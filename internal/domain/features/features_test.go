package features_test

import (
	"sync"
	"testing"

	"github.com/okian/shipboard/internal/domain/features"
	. "github.com/smartystreets/goconvey/convey"
)

func TestToggler(t *testing.T) {
	Convey("Given a toggler over the demo features", t, func() {
		tg := features.NewToggler()

		Convey("When toggling many times", func() {
			seenNames := map[string]bool{}
			seenStates := map[bool]bool{}
			for i := 0; i < 500; i++ {
				out := tg.Toggle()
				seenNames[out.Feature] = true
				seenStates[out.Enabled] = true
				So(out.Message, ShouldContainSubstring, out.Feature)
			}

			Convey("Then every name should come from the fixture list", func() {
				allowed := map[string]bool{}
				for _, n := range tg.Features() {
					allowed[n] = true
				}
				for n := range seenNames {
					So(allowed[n], ShouldBeTrue)
				}
			})

			Convey("And both states should eventually appear", func() {
				So(seenStates[true], ShouldBeTrue)
				So(seenStates[false], ShouldBeTrue)
			})
		})
	})

	Convey("Given two togglers with the same seed", t, func() {
		a := features.NewToggler(features.WithSeed(7))
		b := features.NewToggler(features.WithSeed(7))

		Convey("Then their draws should match", func() {
			for i := 0; i < 20; i++ {
				So(a.Toggle(), ShouldResemble, b.Toggle())
			}
		})
	})

	Convey("Given a toggler with a single custom feature", t, func() {
		tg := features.NewToggler(features.WithFeatures([]string{"only_one"}), features.WithSeed(1))

		Convey("Then the message should reflect the drawn state", func() {
			out := tg.Toggle()
			So(out.Feature, ShouldEqual, "only_one")
			if out.Enabled {
				So(out.Message, ShouldEqual, "Feature 'only_one' has been enabled")
			} else {
				So(out.Message, ShouldEqual, "Feature 'only_one' has been disabled")
			}
		})

		Convey("And an empty feature list should be ignored", func() {
			kept := features.NewToggler(features.WithFeatures(nil))
			So(kept.Features(), ShouldHaveLength, 4)
		})
	})

	Convey("Given concurrent callers", t, func() {
		tg := features.NewToggler()

		Convey("Then toggling should be race free", func() {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						_ = tg.Toggle()
					}
				}()
			}
			wg.Wait()
			So(true, ShouldBeTrue)
		})
	})
}
