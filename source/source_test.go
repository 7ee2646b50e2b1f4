package source

import (
	"errors"
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestItem(t *testing.T) {
	Convey("Item", t, func() {
		Convey("String includes the year when known", func() {
			So((&Item{Title: "Akira"}).String(), ShouldEqual, "Akira")
			So((&Item{Title: "Akira", Year: "1988"}).String(), ShouldEqual, "Akira (1988)")
		})

		Convey("Categories drops blanks and duplicates", func() {
			So(Categories("Drama", " ", "Action", "Drama"), ShouldEqual, "Drama, Action")
			So(Categories(), ShouldEqual, "")
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given a transport failure", t, func() {
		err := Transport("cms", io.ErrUnexpectedEOF)

		Convey("It unwraps to the cause", func() {
			So(errors.Is(err, io.ErrUnexpectedEOF), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "cms: transport: unexpected EOF")
		})

		Convey("Wrapping twice keeps the first wrapper", func() {
			So(Transport("other", err), ShouldEqual, err)
		})

		Convey("Nil stays nil", func() {
			So(Transport("cms", nil), ShouldBeNil)
		})
	})

	Convey("Given a provider failure", t, func() {
		err := Providerf("mal", "status %d", 403)

		var pe *ProviderError
		So(errors.As(err, &pe), ShouldBeTrue)
		So(pe.Message, ShouldEqual, "status 403")
		So(err.Error(), ShouldEqual, "mal: status 403")
	})
}
