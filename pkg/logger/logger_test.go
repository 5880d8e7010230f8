package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When a nil writer is supplied", func() {
			Convey("Then initialization fails", func() {
				So(InitWriter(nil), ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info with fields", func() {
			Get().Info(ctx, "screen loaded", String("screen", "countries"), Int("page", 2))

			Convey("Then the record carries message, fields and source", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "screen loaded")
				So(out, ShouldContainSubstring, "screen=countries")
				So(out, ShouldContainSubstring, "page=2")
				So(out, ShouldContainSubstring, "source=")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible")
			_ = SetLevelString("info")

			Convey("Then debug records are written", func() {
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})

		Convey("When logging an error field", func() {
			Get().Error(ctx, "api error", Error(errors.New("boom")))

			Convey("Then the error text is present", func() {
				So(buf.String(), ShouldContainSubstring, "error=boom")
			})
		})

		Convey("When using named and enriched loggers", func() {
			Named("apiclient").With(String("base", "http://x")).Warn(ctx, "slow")

			Convey("Then component and fields are attached", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "component=apiclient")
				So(out, ShouldContainSubstring, "base=http://x")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(SetLevelString("warning"), ShouldBeNil)
		So(SetLevelString("error"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}

func TestNopAndOrGlobal(t *testing.T) {
	Convey("Given the fallback helpers", t, func() {
		Convey("Nop never panics", func() {
			So(func() { Nop().Error(context.Background(), "dropped") }, ShouldNotPanic)
		})

		Convey("OrGlobal prefers the explicit logger", func() {
			l := Nop()
			So(OrGlobal(l), ShouldEqual, l)
		})

		Convey("OrGlobal falls back to a usable logger", func() {
			So(OrGlobal(nil), ShouldNotBeNil)
		})
	})
}
