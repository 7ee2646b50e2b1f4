package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tansaku/tansaku/search"
	"github.com/tansaku/tansaku/stream"
)

var eventTypes = map[string]stream.Event{
	search.TypeStart:        search.Start{},
	search.TypeSourceResult: search.SourceResult{},
	search.TypeSourceError:  search.SourceError{},
	search.TypeComplete:     search.Complete{},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringP("event", "e", "", "Only print the schema of this event type")
	lo.Must0(schemaCmd.RegisterFlagCompletionFunc("event", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(eventTypes), cobra.ShellCompDirectiveNoFileComp
	}))
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print JSON schemas of the streamed search events",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		if event := lo.Must(cmd.Flags().GetString("event")); event != "" {
			v, ok := eventTypes[event]
			if !ok {
				handleErr(fmt.Errorf("unknown event type %q", event))
			}

			handleErr(encoder.Encode(reflector.Reflect(v)))
			return
		}

		handleErr(encoder.Encode(lo.MapValues(eventTypes, func(v stream.Event, _ string) *jsonschema.Schema {
			return reflector.Reflect(v)
		})))
	},
}
