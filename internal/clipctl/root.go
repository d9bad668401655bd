// Package clipctl implements the clipctl command tree.
package clipctl

import (
	"fmt"
	"os"
	"time"

	"github.com/clipstream/clipstream/pkg/client"
	"github.com/clipstream/clipstream/pkg/cliconfig"
	"github.com/clipstream/clipstream/pkg/clilog"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	jsonOutput bool

	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "clipctl",
	Short: "Clipstream CLI - video engagement from the terminal",
	Long: `clipctl is a command-line interface for the Clipstream video
platform's engagement API. Like, dislike, and star videos, browse and
write comments, and inspect engagement state directly from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := cliconfig.Init(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			os.Exit(1)
		}

		clilog.Init(verbose)

		apiClient = client.New(client.Options{
			BaseURL: cliconfig.GetString("api.base_url"),
			Token:   cliconfig.Token(),
			Timeout: time.Duration(cliconfig.GetInt("api.timeout")) * time.Second,
		})
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/clipstream/clipctl/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON instead of formatted output")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(versionCmd)
}
