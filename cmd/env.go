package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tansaku/tansaku/config"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/where"
	"golang.org/x/exp/slices"
)

// secretKeys never have their environment value printed.
var secretKeys = []string{key.AuthSecret}

type envVar struct {
	name, key string
}

func envVars() []envVar {
	vars := lo.MapToSlice(config.Default, func(k string, f config.Field) envVar {
		return envVar{name: f.Env(), key: k}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath})

	slices.SortFunc(vars, func(a, b envVar) int { return strings.Compare(a.name, b.name) })
	return vars
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only variables present in the environment")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only variables absent from the environment")
	envCmd.Flags().Bool("reveal", false, "Print secret values instead of masking them")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")

	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Long: `List the environment variables that override settings.

Variables may also come from a .env file in the working or config directory.
Invalid values are flagged the same way "tansaku config check" reports them.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			reveal    = lo.Must(cmd.Flags().GetBool("reveal"))
			problems  = config.Problems()
			name      = style.New().Bold(true).Foreground(style.Purple).Render
		)

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(name(v.name), "=")

			switch {
			case !present:
				cmd.Println(style.Fg(style.Red)("unset"))
				continue
			case lo.Contains(secretKeys, v.key) && !reveal:
				cmd.Print(style.Faint("********"))
			default:
				cmd.Print(style.Fg(style.Green)(value))
			}

			if err, bad := problems[v.key]; bad {
				cmd.Print(" ", style.Fg(style.Red)(err.Error()))
			}
			cmd.Println()
		}
	},
}
