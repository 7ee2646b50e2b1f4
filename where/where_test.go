package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tansaku/tansaku/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Results() lives under Cache()", func() {
			path := Results()
			So(filepath.Dir(path), ShouldEqual, Cache())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Sources() lives under Config()", func() {
			So(filepath.Dir(Sources()), ShouldEqual, Config())
		})

		Convey("Library() is not created eagerly", func() {
			exists := lo.Must(filesystem.API().Exists(Library()))
			So(exists, ShouldBeFalse)
		})
	})
}
