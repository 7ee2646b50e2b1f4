package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestDescriptor(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("Key is required", func() {
			So((&Descriptor{Kind: KindCatalogue, URL: "http://x"}).Validate(), ShouldNotBeNil)
		})

		Convey("Unknown kinds are rejected", func() {
			So((&Descriptor{Key: "a", Kind: "ftp"}).Validate(), ShouldNotBeNil)
		})

		Convey("Catalogue defaults to cms and needs a url", func() {
			d := &Descriptor{Key: "a", Kind: KindCatalogue}
			So(d.Validate(), ShouldNotBeNil)

			d.URL = "http://example.com/api.php/provide/vod/"
			So(d.Validate(), ShouldBeNil)
			So(d.Format, ShouldEqual, FormatCMS)
			So(d.Name, ShouldEqual, "a")
		})

		Convey("Anilist needs no url", func() {
			So((&Descriptor{Key: "al", Kind: KindCatalogue, Format: FormatAnilist}).Validate(), ShouldBeNil)
		})
	})

	Convey("VisibleTo", t, func() {
		public := &Descriptor{Key: "public"}
		family := &Descriptor{Key: "family", Roles: []string{"family"}}
		off := &Descriptor{Key: "off", Disabled: true}

		So(public.VisibleTo(auth.Anonymous), ShouldBeTrue)
		So(family.VisibleTo(auth.Anonymous), ShouldBeFalse)
		So(family.VisibleTo(auth.Identity{Subject: "mika", Roles: []string{"family"}}), ShouldBeTrue)
		So(off.VisibleTo(auth.Identity{Subject: "root", Roles: []string{"admin"}}), ShouldBeFalse)
	})
}

func TestCatalogue(t *testing.T) {
	Convey("Given configured providers and a script", t, func() {
		viper.Set(key.Providers, []map[string]any{
			{"key": "cms", "name": "CMS", "kind": "catalogue-api", "url": "http://cms.test/api"},
			{"key": "jelly", "kind": "media-server", "url": "http://jelly.test", "roles": []string{"family"}},
			{"key": "broken", "kind": "media-server"},
			{"key": "cms", "name": "Duplicate", "kind": "catalogue-api", "url": "http://other.test"},
		})
		viper.Set(key.SourcesScripts, true)
		defer viper.Reset()

		So(filesystem.API().WriteFile(filepath.Join(where.Sources(), "example.lua"), []byte("-- lua"), 0644), ShouldBeNil)
		So(filesystem.API().WriteFile(filepath.Join(where.Sources(), "common.lua"), []byte("-- lua"), 0644), ShouldBeNil)

		Convey("All skips invalid entries and deduplicates by key", func() {
			all, err := All()
			So(err, ShouldBeNil)

			keys := make([]string, len(all))
			for i, d := range all {
				keys[i] = d.Key
			}
			So(keys, ShouldResemble, []string{"cms", "jelly", "script:example"})
			So(all[0].Name, ShouldEqual, "CMS")
		})

		Convey("Anonymous callers do not see role-restricted providers", func() {
			visible, err := Config{}.Visible(context.Background(), auth.Anonymous)
			So(err, ShouldBeNil)
			So(len(visible), ShouldEqual, 2)
		})

		Convey("Scripts can be turned off", func() {
			viper.Set(key.SourcesScripts, false)
			all, err := All()
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 2)
		})
	})

	Convey("Static catalogues apply the same visibility rules", t, func() {
		s := Static{{Key: "a"}, {Key: "b", Disabled: true}, nil}
		visible, err := s.Visible(context.Background(), auth.Anonymous)
		So(err, ShouldBeNil)
		So(len(visible), ShouldEqual, 1)
	})

	Convey("Only narrows a catalogue to the named keys", t, func() {
		s := Static{{Key: "a"}, {Key: "b"}, {Key: "c", Disabled: true}}

		visible, err := Only(s, "b", "c").Visible(context.Background(), auth.Anonymous)
		So(err, ShouldBeNil)
		So(visible, ShouldHaveLength, 1)
		So(visible[0].Key, ShouldEqual, "b")

		visible, err = Only(s).Visible(context.Background(), auth.Anonymous)
		So(err, ShouldBeNil)
		So(visible, ShouldHaveLength, 2)
	})
}

func TestOpen(t *testing.T) {
	Convey("Open picks the adapter by kind and format", t, func() {
		viper.Set(key.CacheEnabled, false)
		defer viper.Reset()

		src, err := Open(context.Background(), &Descriptor{Key: "al", Name: "AniList", Kind: KindCatalogue, Format: FormatAnilist})
		So(err, ShouldBeNil)
		So(src.ID(), ShouldEqual, "al")
		So(src.Name(), ShouldEqual, "AniList")

		_, err = Open(context.Background(), &Descriptor{Key: "bad", Kind: KindMediaServer})
		So(err, ShouldNotBeNil)
	})
}

func TestInstall(t *testing.T) {
	Convey("Given a server hosting a script", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/scripts/demo.lua" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte("function SearchItems(q) return {} end"))
		}))
		defer server.Close()

		Convey("The first install writes it, the second is a no-op", func() {
			dest, updated, err := Install(context.Background(), server.URL+"/scripts/demo.lua")
			So(err, ShouldBeNil)
			So(updated, ShouldBeTrue)
			So(dest, ShouldEqual, filepath.Join(where.Sources(), "demo.lua"))

			_, updated, err = Install(context.Background(), server.URL+"/scripts/demo.lua")
			So(err, ShouldBeNil)
			So(updated, ShouldBeFalse)
		})

		Convey("Non-lua urls are refused", func() {
			_, _, err := Install(context.Background(), server.URL+"/scripts/demo.txt")
			So(err, ShouldNotBeNil)
		})

		Convey("Missing scripts report the status", func() {
			_, _, err := Install(context.Background(), server.URL+"/scripts/missing.lua")
			So(err, ShouldNotBeNil)
		})
	})
}
