package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.SearchProviderTimeout), ShouldEqual, 20)
			So(viper.GetStringSlice(key.FilterDenylist), ShouldContain, "hentai")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("search.provider_timeout"), ShouldEqual, "search_provider_timeout")
		})

		Convey("Field.Env prefixes the application name", func() {
			f := Default[key.ServerAddress]
			So(f.Env(), ShouldEqual, "TANSAKU_SERVER_ADDRESS")
		})

		Convey("A .env file in the config directory feeds the environment", func() {
			path := filepath.Join(where.Config(), ".env")
			So(filesystem.API().WriteFile(path, []byte("TANSAKU_TEST_DOTENV=loaded\n"), 0644), ShouldBeNil)
			defer os.Unsetenv("TANSAKU_TEST_DOTENV")

			So(Setup(), ShouldBeNil)
			So(os.Getenv("TANSAKU_TEST_DOTENV"), ShouldEqual, "loaded")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parse converts and validates command line values", t, func() {
		Convey("Integers must fit the key", func() {
			v, err := Parse(key.SearchProviderTimeout, []string{"10"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 10)

			_, err = Parse(key.SearchProviderTimeout, []string{"0"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.SearchProviderTimeout)

			_, err = Parse(key.SearchProviderTimeout, []string{"soon"})
			So(err, ShouldNotBeNil)
		})

		Convey("A zero heartbeat disables pings but a negative one is rejected", func() {
			v, err := Parse(key.ServerHeartbeat, []string{"0"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)

			_, err = Parse(key.ServerHeartbeat, []string{"-5"})
			So(err, ShouldNotBeNil)
		})

		Convey("Denylist terms are split, trimmed and must not be blank", func() {
			v, err := Parse(key.FilterDenylist, []string{"adult, nsfw", "gore"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, []string{"adult", "nsfw", "gore"})

			_, err = Parse(key.FilterDenylist, []string{"adult,,nsfw"})
			So(err, ShouldNotBeNil)
		})

		Convey("Enumerated strings are checked", func() {
			_, err := Parse(key.LogsLevel, []string{"loud"})
			So(err, ShouldNotBeNil)
			_, err = Parse(key.IconsVariant, []string{"nerd"})
			So(err, ShouldBeNil)
			_, err = Parse(key.ServerAddress, []string{"3000"})
			So(err, ShouldNotBeNil)
		})

		Convey("Unknown keys are reported", func() {
			_, err := Parse("search.nope", []string{"1"})
			So(errors.Is(err, ErrUnknownKey), ShouldBeTrue)
		})
	})
}

func TestProblems(t *testing.T) {
	Convey("Problems reports invalid loaded values", t, func() {
		So(Setup(), ShouldBeNil)
		So(Problems(), ShouldBeEmpty)

		viper.Set(key.CacheTTL, -1)
		defer viper.Set(key.CacheTTL, Default[key.CacheTTL].Value)

		problems := Problems()
		So(problems, ShouldHaveLength, 1)
		So(problems, ShouldContainKey, key.CacheTTL)
	})
}
