package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func resetOutput() {
	SetOutput(os.Stdout)
	_ = SetFormat(FormatText)
}

func TestLoggerInit(t *testing.T) {
	Convey("Given a freshly initialized logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get should return a usable instance", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
		})
	})
}

func TestLoggerTextOutput(t *testing.T) {
	Convey("Given a logger writing text to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(), ShouldBeNil)
		SetOutput(&buf)
		defer resetOutput()

		Convey("When logging with fields", func() {
			Get().Info(context.Background(), "request served",
				String("path", "/health"),
				Int("status", 200),
				Error(errors.New("boom")),
			)

			Convey("Then the line should carry message, fields and source", func() {
				line := buf.String()
				So(line, ShouldContainSubstring, "request served")
				So(line, ShouldContainSubstring, "path=/health")
				So(line, ShouldContainSubstring, "status=200")
				So(line, ShouldContainSubstring, "error=boom")
				So(line, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised above debug", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Debug(context.Background(), "hidden")
			Get().Info(context.Background(), "hidden too")
			Get().Warn(context.Background(), "visible")

			Convey("Then only warn output is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a logger in json format", t, func() {
		var buf bytes.Buffer
		So(Init(), ShouldBeNil)
		SetOutput(&buf)
		So(SetFormat("JSON"), ShouldBeNil)
		defer resetOutput()

		Convey("When logging through With and Named", func() {
			Get().With(String("request_id", "abc")).Named("http").Info(context.Background(), "ok", Bool("counted", true))

			Convey("Then the output should be a decodable JSON object", func() {
				var rec map[string]any
				So(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "ok")
				So(rec["request_id"], ShouldEqual, "abc")
				group, ok := rec["http"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["counted"], ShouldEqual, true)
			})
		})
	})
}

func TestLoggerSettings(t *testing.T) {
	Convey("Given level and format setters", t, func() {
		Convey("Then known levels should be accepted", func() {
			for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
			_ = SetLevelString("info")
		})

		Convey("And unknown levels should be rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("And unknown formats should be rejected", func() {
			So(SetFormat("xml"), ShouldNotBeNil)
		})
	})
}
