package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/shipboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Environment, convey.ShouldEqual, "development")
			convey.So(cfg.GitCommit, convey.ShouldEqual, "unknown")
			convey.So(cfg.BuildNumber, convey.ShouldEqual, "local")
			convey.So(cfg.LoadIterations, convey.ShouldEqual, 1_000_000)
			convey.So(cfg.LoadRateLimit, convey.ShouldEqual, 0)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("And duration helpers should convert milliseconds", func() {
			convey.So(cfg.CPUSampleInterval(), convey.ShouldEqual, 200*time.Millisecond)
			convey.So(cfg.SamplerInterval(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.LoadRateInterval(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.StreamInterval(), convey.ShouldEqual, 5*time.Second)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid fields", t, func() {
		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"addr", func(c *config.Config) { c.Addr = "  " }},
			{"cpu sample interval", func(c *config.Config) { c.CPUSampleIntervalMS = -1 }},
			{"sampler interval", func(c *config.Config) { c.SamplerIntervalMS = -1 }},
			{"stream interval", func(c *config.Config) { c.StreamIntervalMS = 0 }},
			{"load iterations", func(c *config.Config) { c.LoadIterations = -5 }},
			{"rate limit", func(c *config.Config) { c.LoadRateLimit = -1 }},
			{"rate interval", func(c *config.Config) { c.LoadRateIntervalMS = 0 }},
			{"log format", func(c *config.Config) { c.LogFormat = "xml" }},
		}

		for _, tc := range cases {
			convey.Convey("Then an invalid "+tc.name+" should be rejected", func() {
				cfg := config.New()
				tc.mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("And a zero rate limit should not require an interval", func() {
			cfg := config.New()
			cfg.LoadRateLimit = 0
			cfg.LoadRateIntervalMS = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
