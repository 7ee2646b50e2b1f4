package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/icon"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/search"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/stream"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/util"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("json", "j", false, "Stream events as newline-delimited JSON")
	searchCmd.Flags().StringSliceP("source", "s", []string{}, "Only search the providers with these keys")
	searchCmd.Flags().StringSliceP("role", "r", []string{}, "Search as a caller holding these roles")
	searchCmd.Flags().IntP("limit", "l", 5, "Items printed per provider, 0 prints all")

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("source", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		all, err := provider.All()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.Map(all, func(d *provider.Descriptor, _ int) string { return d.Key }), cobra.ShellCompDirectiveNoFileComp
	}))
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search every configured provider and print results as they arrive",
	Args:  cobra.MinimumNArgs(1),
	Example: `  tansaku search "spirited away"
  tansaku search naruto --json
  tansaku search totoro --source library --source anilist`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			asJSON = lo.Must(cmd.Flags().GetBool("json"))
			keys   = lo.Must(cmd.Flags().GetStringSlice("source"))
			roles  = lo.Must(cmd.Flags().GetStringSlice("role"))
			limit  = lo.Must(cmd.Flags().GetInt("limit"))
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		id := auth.Anonymous
		if len(roles) > 0 {
			id = auth.Identity{Subject: "local", Roles: roles}
		}

		dispatcher := search.NewDispatcher(provider.Only(provider.Config{}, keys...))
		session, err := dispatcher.NewSession(ctx, strings.Join(args, " "), id)
		handleErr(err)

		var sink stream.Sink
		if asJSON {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()
			sink = stream.NewWriter(out, stream.NDJSON)
		} else {
			sink = newTerminal(cmd.OutOrStdout(), limit)
		}

		summary := session.Run(ctx, sink)
		if summary.Disconnected && ctx.Err() != nil {
			os.Exit(130)
		}
	},
}

// terminal is a Sink rendering events as styled lines.
type terminal struct {
	mu    sync.Mutex
	w     io.Writer
	limit int
	width int
	state stream.State
}

func newTerminal(w io.Writer, limit int) *terminal {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 {
		width = 80
	}

	return &terminal{w: w, limit: limit, width: width}
}

func (t *terminal) Emit(event stream.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stream.Open {
		return false
	}

	if _, err := io.WriteString(t.w, t.render(event)); err != nil {
		t.state = stream.Closed
		return false
	}
	return true
}

func (t *terminal) Finish(event stream.Event) bool {
	ok := t.Emit(event)

	t.mu.Lock()
	t.state = stream.Closed
	t.mu.Unlock()

	return ok
}

func (t *terminal) Ping() bool {
	return t.State() == stream.Open
}

func (t *terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = stream.Closed
}

func (t *terminal) State() stream.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

func (t *terminal) render(event stream.Event) string {
	var b strings.Builder

	switch e := event.(type) {
	case search.Start:
		fmt.Fprintf(&b, "%s Searching %s for %s\n\n",
			icon.Get(icon.Search),
			util.Quantify(e.TotalSources, "provider", "providers"),
			style.Fg(style.Yellow)(e.Query),
		)
	case search.SourceResult:
		fmt.Fprintf(&b, "%s %s\n",
			style.Tag(style.Gray, style.Purple)(e.SourceName),
			style.Faint(util.Quantify(len(e.Results), "result", "results")),
		)

		shown := e.Results
		if t.limit > 0 && len(shown) > t.limit {
			shown = shown[:t.limit]
		}
		for _, item := range shown {
			b.WriteString(indent.String(t.line(item), 2))
			b.WriteString("\n")
		}
		if hidden := len(e.Results) - len(shown); hidden > 0 {
			b.WriteString(indent.String(style.Faint(fmt.Sprintf("… and %d more", hidden)), 2))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	case search.SourceError:
		fmt.Fprintf(&b, "%s %s %s\n\n",
			style.Tag(style.Gray, style.Red)(e.SourceName),
			icon.Get(icon.Fail),
			style.Fg(style.Red)(e.Error),
		)
	case search.Complete:
		fmt.Fprintf(&b, "%s %s from %s\n",
			icon.Get(icon.Success),
			style.Bold(util.Quantify(e.TotalResults, "result", "results")),
			util.Quantify(e.CompletedSources, "provider", "providers"),
		)
	}

	return b.String()
}

func (t *terminal) line(item *source.Item) string {
	line := style.Bold(item.String())
	if item.Category != "" {
		line += " " + style.Faint(item.Category)
	}
	if item.URL != "" {
		line += " " + style.Fg(style.Blue)(item.URL)
	}

	return truncate.StringWithTail(line, uint(util.Max(t.width-2, 20)), "…")
}
