package mal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tansaku/tansaku/source"
)

const response = `{"data":[
	{"node":{"id":5114,"title":"Fullmetal Alchemist: Brotherhood",
	 "main_picture":{"medium":"http://img/m.jpg","large":"http://img/l.jpg"},
	 "alternative_titles":{"en":"Fullmetal Alchemist: Brotherhood","ja":"鋼の錬金術師"},
	 "start_date":"2009-04-05","synopsis":" Two brothers. ","media_type":"tv","status":"finished_airing",
	 "num_episodes":64,"nsfw":"white","genres":[{"name":"Action"},{"name":"Drama"}]}},
	{"node":{"id":1,"title":"Spicy","media_type":"ova","nsfw":"black","genres":[{"name":"Hentai"}]}}
]}`

func TestSearch(t *testing.T) {
	Convey("Given a MyAnimeList endpoint", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-MAL-CLIENT-ID") != "client" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if r.URL.Path != "/anime" || r.URL.Query().Get("q") == "" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(response))
		}))
		defer server.Close()

		Convey("Nodes become items", func() {
			items, err := New("mal", "MAL", server.URL, "client").Search(context.Background(), "fma")
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 2)

			fma := items[0]
			So(fma.ID, ShouldEqual, "5114")
			So(fma.Year, ShouldEqual, "2009")
			So(fma.Category, ShouldEqual, "TV, Action, Drama")
			So(fma.Cover, ShouldEqual, "http://img/l.jpg")
			So(fma.Description, ShouldEqual, "Two brothers.")
			So(fma.URL, ShouldEqual, "https://myanimelist.net/anime/5114")
			So(fma.Extra["status"], ShouldEqual, "finished airing")

			So(items[1].Category, ShouldEqual, "OVA, Hentai, NSFW")
		})

		Convey("A wrong client id is a provider error", func() {
			_, err := New("mal", "MAL", server.URL, "wrong").Search(context.Background(), "fma")
			var pe *source.ProviderError
			So(errors.As(err, &pe), ShouldBeTrue)
		})

		Convey("A missing client id fails without a request", func() {
			_, err := New("mal", "MAL", server.URL, "").Search(context.Background(), "fma")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Unreachable hosts are transport errors", t, func() {
		_, err := New("mal", "MAL", "http://127.0.0.1:1", "client").Search(context.Background(), "x")
		var te *source.TransportError
		So(errors.As(err, &te), ShouldBeTrue)
	})
}
