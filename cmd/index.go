package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/icon"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/library"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/util"
)

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringP("root", "r", "", "Directory holding the media files")
	lo.Must0(viper.BindPFlag(key.LibraryRoot, indexCmd.Flags().Lookup("root")))

	indexCmd.Flags().StringP("path", "p", "", "Location of the index")
	lo.Must0(viper.BindPFlag(key.LibraryPath, indexCmd.Flags().Lookup("path")))
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index a local media directory for the personal-index provider",
	Run: func(cmd *cobra.Command, args []string) {
		root := viper.GetString(key.LibraryRoot)
		if root == "" {
			handleErr(errors.New("no media directory, pass --root or set library.root"))
		}

		index, err := library.OpenIndex(viper.GetString(key.LibraryPath))
		handleErr(err)
		defer library.CloseAll()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		erase := util.PrintErasable(fmt.Sprintf("%s Scanning %s...", icon.Get(icon.Progress), root))
		added, err := library.Scan(ctx, index, root)
		erase()
		handleErr(err)

		total, err := index.Count()
		handleErr(err)

		fmt.Printf("%s indexed %s, %s in total\n",
			icon.Get(icon.Success),
			style.Fg(style.Yellow)(util.Quantify(added, "file", "files")),
			util.Quantify(int(total), "document", "documents"),
		)
	},
}
