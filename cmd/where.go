package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/where"
)

type whereTarget struct {
	name     string
	where    func() string
	argLong  string
	argShort mo.Option[string]
	// describe summarises what is stored there, if anything.
	describe func(path string) string
	hidden   bool
}

func libraryPath() string {
	if p := viper.GetString(key.LibraryPath); p != "" {
		return p
	}
	return where.Library()
}

var wherePaths = []*whereTarget{
	{"Config", where.Config, "config", mo.Some("c"), nil, false},
	{"Sources", where.Sources, "sources", mo.Some("s"), describeScripts, false},
	{"Library index", libraryPath, "library", mo.Some("i"), describeIndex, false},
	{"Cached results", where.Results, "results", mo.Some("r"), describeResults, false},
	{"Logs", where.Logs, "logs", mo.Some("l"), nil, false},
	{"Cache", where.Cache, "cache", mo.None[string](), nil, true},
	{"Temp", where.Temp, "temp", mo.None[string](), nil, true},
}

func describeScripts(string) string {
	scripts, err := provider.Scripts()
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%d provider scripts", len(scripts))
}

func describeIndex(path string) string {
	if ok, _ := filesystem.API().Exists(path); !ok {
		return "not built yet, run tansaku index"
	}
	return "built"
}

func describeResults(path string) string {
	files, err := afero.Glob(filesystem.API(), filepath.Join(path, "*.json"))
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%d providers with cached results", len(files))
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, n := range wherePaths {
		if n.argShort.IsPresent() {
			whereCmd.Flags().BoolP(n.argLong, n.argShort.MustGet(), false, n.name+" path")
		} else {
			whereCmd.Flags().Bool(n.argLong, false, n.name+" path")
		}

		if n.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(n.argLong))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(wherePaths, func(t *whereTarget, _ int) string {
		return t.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where settings, scripts, the library index and caches live",
	Run: func(cmd *cobra.Command, args []string) {
		header := style.New().Bold(true).Foreground(style.HiPurple).Render

		if target, ok := lo.Find(wherePaths, func(t *whereTarget) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		}); ok {
			cmd.Println(target.where())
			return
		}

		visible := lo.Reject(wherePaths, func(t *whereTarget, _ int) bool { return t.hidden })
		for i, n := range visible {
			path := n.where()

			cmd.Printf("%s %s\n", header(n.name), style.Fg(style.Yellow)("--"+n.argLong))
			cmd.Println(path)
			if n.describe != nil {
				cmd.Println(style.Faint(n.describe(path)))
			}

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
