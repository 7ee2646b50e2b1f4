package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/source"
)

func init() {
	filesystem.SetMemMapFs()
}

const page = `{"data":{"page":{"media":[
	{"id":1,"idMal":20,"title":{"romaji":"Naruto","english":"","native":"ナルト"},
	 "description":"A <b>ninja</b> story<br>","genres":["Action","Adventure"],"format":"TV",
	 "isAdult":false,"coverImage":{"large":"http://img/large.jpg"},"startDate":{"year":2002},
	 "siteUrl":"https://anilist.co/anime/1","episodes":220,"status":"FINISHED"},
	{"id":2,"title":{"romaji":"Secret","english":"Secret Garden"},"genres":["Drama"],
	 "format":"OVA","isAdult":true}
]}}}`

func TestSearch(t *testing.T) {
	Convey("Given an Anilist endpoint", t, func() {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)

			var body struct {
				Variables struct {
					Query string `json:"query"`
				} `json:"variables"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)

			if body.Variables.Query == "broken" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		src := New("al", "AniList", server.URL)

		Convey("Results are converted to items", func() {
			items, err := src.Search(context.Background(), "Naruto")
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 2)

			naruto := items[0]
			So(naruto.Title, ShouldEqual, "Naruto")
			So(naruto.ID, ShouldEqual, "1")
			So(naruto.Year, ShouldEqual, "2002")
			So(naruto.Category, ShouldEqual, "TV, Action, Adventure")
			So(naruto.Description, ShouldEqual, "A ninja story")
			So(naruto.Cover, ShouldEqual, "http://img/large.jpg")
			So(naruto.Extra["native"], ShouldEqual, "ナルト")
			So(naruto.Extra["mal"], ShouldEqual, "https://myanimelist.net/anime/20")

			So(items[1].Title, ShouldEqual, "Secret Garden")
			So(items[1].Category, ShouldContainSubstring, "Adult")
		})

		Convey("Failures are remembered briefly", func() {
			_, err := src.Search(context.Background(), "broken")
			var te *source.TransportError
			So(errors.As(err, &te), ShouldBeTrue)

			before := calls.Load()
			_, err = src.Search(context.Background(), "  BROKEN ")
			var pe *source.ProviderError
			So(errors.As(err, &pe), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, before)
		})

		Convey("A cancelled context aborts the request", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := src.Search(ctx, "cancelled")
			So(err, ShouldNotBeNil)
			So(failCacher.Get("cancelled").IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("The default endpoint is used when none is configured", t, func() {
		So(New("al", "AniList", "").url, ShouldEqual, DefaultURL)
	})
}
