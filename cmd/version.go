package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	versionCmd.Flags().BoolP("check", "c", false, "Look up the latest release and exit with 1 if this build is older")
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(style.Purple),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}      {{ bold .Version }}
  {{ faint "Git Commit" }}   {{ bold .Revision }}
  {{ faint "Build Date" }}   {{ bold .BuiltAt }}
  {{ faint "Built By" }}     {{ bold .BuiltBy }}
  {{ faint "Go" }}           {{ bold .Go }}
  {{ faint "Platform" }}     {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Providers" }}    {{ bold .Providers }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		if lo.Must(cmd.Flags().GetBool("check")) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			latest, err := version.Latest(ctx)
			handleErr(err)

			cmp, err := version.Compare(latest, constant.Version)
			handleErr(err)

			if cmp > 0 {
				cmd.Printf("%s is available, this is %s\n", style.Fg(style.Yellow)(latest), constant.Version)
				os.Exit(1)
			}
			cmd.Printf("%s is the latest release\n", style.Fg(style.Green)(constant.Version))
			return
		}

		defer version.Notify()

		// a broken providers table should not hide the version
		providers := "unknown"
		if all, err := provider.All(); err == nil {
			providers = strings.Join(lo.Map(provider.Kinds, func(k provider.Kind, _ int) string {
				return fmt.Sprintf("%d %s", lo.CountBy(all, func(d *provider.Descriptor) bool { return d.Kind == k }), k)
			}), ", ")
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), struct {
			App, Version, Revision, BuiltAt, BuiltBy string
			Go, OS, Arch                             string
			Providers                                string
		}{
			App:       constant.Tansaku,
			Version:   constant.Version,
			Revision:  constant.Revision,
			BuiltAt:   strings.TrimSpace(constant.BuiltAt),
			BuiltBy:   constant.BuiltBy,
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Providers: providers,
		}))
	},
}
