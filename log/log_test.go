package log

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("WithFields still returns a usable entry", func() {
			entry := WithFields(Fields{"provider": "x"})
			So(entry, ShouldNotBeNil)
			So(func() { entry.Info("dropped") }, ShouldNotPanic)
		})
	})

	Convey("Given logging to a file", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsFile, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)

		Convey("Entries carry fields", func() {
			entry := WithFields(Fields{"session": "abc"})
			So(entry.Data["session"], ShouldEqual, "abc")
		})
	})
}
