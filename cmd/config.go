package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/config"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/icon"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/where"
)

func errUnknownKey(k string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})

	return fmt.Errorf(
		"%w %s, did you mean %s?",
		config.ErrUnknownKey,
		style.Fg(style.Red)(k),
		style.Fg(style.Yellow)(closest),
	)
}

// mustField resolves a key from the argument or the --key flag.
func mustField(cmd *cobra.Command, args []string) config.Field {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}

	if k == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}

	field, ok := config.Default[k]
	if !ok {
		handleErr(errUnknownKey(k))
	}
	return field
}

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// section is the part of a key before the first dot: "search", "filter", "server"...
func section(k string) string {
	s, _, _ := strings.Cut(k, ".")
	return s
}

func configFile() string {
	return filepath.Join(where.Config(), constant.Tansaku+".toml")
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.SetOut(os.Stdout)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	Long: `Inspect and change settings.

Values are read from the config file, then TANSAKU_* environment variables
and .env files. Providers are declared as [[providers]] tables in the config file.`,
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only show these keys")
	configInfoCmd.Flags().StringP("section", "s", "", "Only show keys of one section, e.g. search or server")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print fields as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	_ = configInfoCmd.RegisterFlagCompletionFunc("section", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Uniq(lo.Map(lo.Keys(config.Default), func(k string, _ int) string { return section(k) })), cobra.ShellCompDirectiveNoFileComp
	})
}

var configInfoCmd = &cobra.Command{
	Use:     "info",
	Aliases: []string{"list", "ls"},
	Short:   "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys    = lo.Must(cmd.Flags().GetStringSlice("key"))
			only    = lo.Must(cmd.Flags().GetString("section"))
			asJSON  = lo.Must(cmd.Flags().GetBool("json"))
			fields  = lo.Values(config.Default)
			unknown = lo.Filter(keys, func(k string, _ int) bool { _, ok := config.Default[k]; return !ok })
		)

		if len(unknown) > 0 {
			handleErr(errUnknownKey(unknown[0]))
		}

		fields = lo.Filter(fields, func(f config.Field, _ int) bool {
			return (len(keys) == 0 || lo.Contains(keys, f.Key)) && (only == "" || section(f.Key) == only)
		})

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if asJSON {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.ToSlicePtr(fields)))
			return
		}

		header := style.New().Bold(true).Foreground(style.HiPurple).Render
		for i, group := range lo.PartitionBy(fields, func(f config.Field) string { return section(f.Key) }) {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(header("[" + section(group[0].Key) + "]"))

			for _, field := range group {
				cmd.Println()
				cmd.Println(field.Pretty())
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := mustField(cmd, args)

		switch v := viper.Get(field.Key).(type) {
		case []string:
			cmd.Println(strings.Join(v, ","))
		default:
			cmd.Println(v)
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "New value. Lists accept several values or a comma separated one")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value...]",
	Short: "Validate and store a new value for a key",
	Example: `  tansaku config set search.provider_timeout 10
  tansaku config set filter.denylist adult,nsfw
  tansaku config set server.address 127.0.0.1:8080`,
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := mustField(cmd, args)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		v, err := config.Parse(field.Key, raw)
		handleErr(err)

		viper.Set(field.Key, v)
		handleErr(config.Save())

		cmd.Printf(
			"%s set %s to %s\n",
			style.Fg(style.Green)(icon.Get(icon.Success)),
			style.Fg(style.Purple)(field.Key),
			style.Fg(style.Yellow)(fmt.Sprintf("%v", v)),
		)

		if required, _ := v.(bool); field.Key == key.AuthRequired && required && viper.GetString(key.AuthSecret) == "" {
			cmd.Printf("%s no auth.secret set, the keyring secret from %s is used\n",
				icon.Get(icon.Fail), style.Fg(style.Yellow)("tansaku auth secret"))
		}
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Restore default values",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if !lo.Must(cmd.Flags().GetBool("all")) {
			fields = []config.Field{mustField(cmd, args)}
		}

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		handleErr(config.Save())

		if len(fields) == 1 {
			cmd.Printf(
				"%s reset %s to %s\n",
				style.Fg(style.Green)(icon.Get(icon.Success)),
				style.Fg(style.Purple)(fields[0].Key),
				style.Fg(style.Yellow)(fmt.Sprintf("%v", fields[0].Value)),
			)
			return
		}

		cmd.Printf("%s reset %d keys\n", style.Fg(style.Green)(icon.Get(icon.Success)), len(fields))
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and provider declarations",
	Run: func(cmd *cobra.Command, args []string) {
		problems := lo.MapToSlice(config.Problems(), func(_ string, err error) string { return err.Error() })

		var declared []*provider.Descriptor
		if err := viper.UnmarshalKey(key.Providers, &declared); err != nil {
			problems = append(problems, fmt.Sprintf("providers: %s", err))
		}

		for i, d := range declared {
			if d == nil {
				continue
			}
			if err := d.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("providers[%d]: %s", i, err))
			}
		}

		for _, dup := range lo.FindDuplicates(lo.Map(lo.Compact(declared), func(d *provider.Descriptor, _ int) string { return d.Key })) {
			problems = append(problems, fmt.Sprintf("providers: key %q is declared more than once, only the first is used", dup))
		}

		if len(problems) == 0 {
			cmd.Printf("%s %s is valid, %d providers declared\n",
				style.Fg(style.Green)(icon.Get(icon.Success)), configFile(), len(declared))
			return
		}

		sort.Strings(problems)
		for _, p := range problems {
			cmd.Printf("%s %s\n", style.Fg(style.Red)(icon.Get(icon.Fail)), p)
		}
		handleErr(fmt.Errorf("%d problems found", len(problems)))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(configFile()))
		}

		handleErr(viper.SafeWriteConfig())
		cmd.Printf("%s wrote config to %s\n", style.Fg(style.Green)(icon.Get(icon.Success)), configFile())
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Delete the config file",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		cmd.Printf("%s deleted %s\n", style.Fg(style.Green)(icon.Get(icon.Success)), configFile())
	},
}
