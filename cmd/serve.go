package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/library"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/search"
	"github.com/tansaku/tansaku/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Address to listen on")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("address")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the streaming search API over HTTP",
	Long: `Serve the search API:

  GET /api/search/stream?q=   server-sent events, one per provider as it finishes
  GET /api/search?q=          the same search collected into one JSON document
  GET /api/sources            providers visible to the caller
  GET /healthz                liveness`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := server.FromConfig()
		handleErr(err)

		catalogue := provider.Config{}
		srv := server.New(cfg, catalogue, search.NewDispatcher(catalogue))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errs := make(chan error, 1)
		go func() {
			errs <- srv.Listen()
		}()

		select {
		case err = <-errs:
			handleErr(err)
		case <-ctx.Done():
			log.Info("shutting down")
		}

		handleErr(srv.Shutdown())
		library.CloseAll()
	},
}
