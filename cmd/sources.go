package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/icon"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/util"
	"github.com/tansaku/tansaku/where"
)

const scriptExtension = ".lua"

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage configured providers and Lua scripts",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Print only provider keys")
	sourcesListCmd.Flags().StringP("kind", "k", "", "Only list providers of this kind")
	lo.Must0(sourcesListCmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(provider.Kinds, func(k provider.Kind, _ int) string { return string(k) }), cobra.ShellCompDirectiveNoFileComp
	}))

	sourcesListCmd.SetOut(os.Stdout)
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configured provider",
	Run: func(cmd *cobra.Command, args []string) {
		all, err := provider.All()
		handleErr(err)

		if kind := lo.Must(cmd.Flags().GetString("kind")); kind != "" {
			all = lo.Filter(all, func(d *provider.Descriptor, _ int) bool { return string(d.Kind) == kind })
		}

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, d := range all {
				cmd.Println(d.Key)
			}
			return
		}

		headerStyle := style.New().Foreground(style.HiBlue).Bold(true).Render
		for _, kind := range provider.Kinds {
			group := lo.Filter(all, func(d *provider.Descriptor, _ int) bool { return d.Kind == kind })
			if len(group) == 0 {
				continue
			}

			cmd.Println(headerStyle(string(kind) + ":"))
			for _, d := range group {
				line := fmt.Sprintf("%s %s", d.Name, style.Faint(d.Key))
				if d.Disabled {
					line += " " + style.Fg(style.Red)("disabled")
				}
				if len(d.Roles) > 0 {
					line += " " + style.Fg(style.Yellow)(strings.Join(d.Roles, ","))
				}
				cmd.Println(line)
			}
			cmd.Println()
		}
	},
}

func scriptNames() []string {
	scripts, err := provider.Scripts()
	if err != nil {
		return nil
	}

	return lo.Map(scripts, func(d *provider.Descriptor, _ int) string { return d.Name })
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the Lua script to remove")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return scriptNames(), cobra.ShellCompDirectiveNoFileComp
	}))
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove installed Lua scripts",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+scriptExtension)
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(style.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesInstallCmd)
}

var sourcesInstallCmd = &cobra.Command{
	Use:   "install [url...]",
	Short: "Download Lua scripts into the sources directory",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, url := range args {
			erase := util.PrintErasable(fmt.Sprintf("%s Downloading %s...", icon.Get(icon.Progress), url))
			dest, updated, err := provider.Install(context.Background(), url)
			erase()
			handleErr(err)

			if !updated {
				fmt.Printf("%s %s is up to date\n", icon.Get(icon.Success), style.Fg(style.Yellow)(util.FileStem(dest)))
				continue
			}

			fmt.Printf("%s installed %s to %s\n", icon.Get(icon.Lua), style.Fg(style.Yellow)(util.FileStem(dest)), dest)
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "Name of the new provider")
	sourcesGenCmd.Flags().StringP("url", "u", "", "Base URL of the site it searches")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua provider script",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		s := struct {
			Name          string
			URL           string
			SearchItemsFn string
			Author        string
		}{
			Name:          lo.Must(cmd.Flags().GetString("name")),
			URL:           lo.Must(cmd.Flags().GetString("url")),
			SearchItemsFn: constant.SearchItemsFn,
			Author:        author,
		}

		tmpl, err := template.New("source").Funcs(template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}).Parse(constant.SourceTemplate)
		handleErr(err)

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+scriptExtension)
		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer f.Close()

		handleErr(tmpl.Execute(f, s))
		cmd.Println(target)
	},
}
