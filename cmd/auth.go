package cmd

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/icon"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the token secret and issue API tokens",
}

func init() {
	authCmd.AddCommand(authSecretCmd)

	authSecretCmd.Flags().BoolP("show", "s", false, "Print the stored secret instead of generating one")
	authSecretCmd.Flags().BoolP("delete", "d", false, "Remove the stored secret")
	authSecretCmd.MarkFlagsMutuallyExclusive("show", "delete")
}

var authSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a token secret and store it in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case lo.Must(cmd.Flags().GetBool("show")):
			secret, err := auth.GetSecret()
			handleErr(err)
			cmd.Println(secret)
		case lo.Must(cmd.Flags().GetBool("delete")):
			handleErr(auth.DeleteSecret())
			fmt.Printf("%s secret removed from keyring\n", icon.Get(icon.Success))
		default:
			secret, err := auth.GenerateSecret()
			handleErr(err)
			handleErr(auth.SetSecret(secret))
			fmt.Printf("%s new secret stored in keyring, previously issued tokens are void\n", icon.Get(icon.Success))
		}
	},
}

func init() {
	authCmd.AddCommand(authTokenCmd)

	authTokenCmd.Flags().StringP("subject", "u", "", "Caller the token identifies")
	authTokenCmd.Flags().StringSliceP("role", "r", []string{}, "Roles granted to the caller")
	authTokenCmd.Flags().DurationP("ttl", "t", 30*24*time.Hour, "Lifetime of the token, 0 never expires")
	lo.Must0(authTokenCmd.MarkFlagRequired("subject"))
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed API token",
	Run: func(cmd *cobra.Command, args []string) {
		secret, err := auth.Secret()
		handleErr(err)

		var (
			subject = lo.Must(cmd.Flags().GetString("subject"))
			roles   = lo.Must(cmd.Flags().GetStringSlice("role"))
			ttl     = lo.Must(cmd.Flags().GetDuration("ttl"))
		)

		token, err := auth.Issue(secret, subject, roles, ttl)
		handleErr(err)

		cmd.Println(token)
	},
}
