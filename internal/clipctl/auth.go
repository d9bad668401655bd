package clipctl

import (
	"github.com/clipstream/clipstream/pkg/cliconfig"
	"github.com/clipstream/clipstream/pkg/formatter"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored API token",
}

var authLoginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Store a bearer token for authenticated commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cliconfig.SaveToken(args[0]); err != nil {
			return err
		}
		formatter.PrintSuccess("Token saved to %s", cliconfig.GetConfigDir())
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cliconfig.ClearToken(); err != nil {
			return err
		}
		formatter.PrintSuccess("Logged out")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
}
