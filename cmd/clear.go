package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/tansaku/tansaku/cache"
	"github.com/tansaku/tansaku/icon"
	"github.com/tansaku/tansaku/library"
	"github.com/tansaku/tansaku/util"
	"github.com/tansaku/tansaku/where"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() (string, error)
}

func removeAll(path string) error {
	if err := util.Delete(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var clearTargets = []clearTarget{
	{"stale results", "stale", mo.Some("s"), func() (string, error) {
		return fmt.Sprintf("removed %d expired result files", cache.CollectGarbage()), nil
	}},
	{"cached results", "results", mo.Some("r"), func() (string, error) {
		cache.Purge()
		return "provider results will be fetched again", removeAll(where.Results())
	}},
	{"library index", "library", mo.Some("l"), func() (string, error) {
		library.CloseAll()
		return "run tansaku index to rebuild it", removeAll(libraryPath())
	}},
	{"cache directory", "cache", mo.Some("c"), func() (string, error) {
		cache.Purge()
		return "", removeAll(where.Cache())
	}},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached provider results or the library index",
	Example: `  tansaku clear --stale
  tansaku clear --results --library`,
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			note, err := target.clear()
			erase()
			handleErr(err)

			fmt.Printf("%s %s cleared", icon.Get(icon.Success), util.Capitalize(target.name))
			if note != "" {
				fmt.Printf(", %s", note)
			}
			fmt.Println()
		}
	},
}
