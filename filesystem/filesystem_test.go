package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWalkFiles(t *testing.T) {
	Convey("Given a media tree", t, func() {
		SetMemMapFs()
		So(API().WriteFile("/media/Movies/Heat (1995).mkv", []byte("x"), 0644), ShouldBeNil)
		So(API().WriteFile("/media/Movies/Heat (1995).srt", []byte("x"), 0644), ShouldBeNil)
		So(API().WriteFile("/media/Anime/Akira.mp4", []byte("x"), 0644), ShouldBeNil)

		Convey("Only files with allowed extensions are visited", func() {
			var seen []string
			err := WalkFiles("/media", []string{".mkv", ".mp4"}, func(path string, _ os.FileInfo) error {
				seen = append(seen, path)
				return nil
			})

			So(err, ShouldBeNil)
			So(seen, ShouldHaveLength, 2)
		})

		Convey("Empty extension list visits everything", func() {
			count := 0
			err := WalkFiles("/media", nil, func(string, os.FileInfo) error {
				count++
				return nil
			})

			So(err, ShouldBeNil)
			So(count, ShouldEqual, 3)
		})
	})
}
