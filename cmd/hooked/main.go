package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hooked/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	cfg      config.Cfg
	baseURL  string
	token    string
	logLevel string
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "hooked",
		Short: "Hooked fishing log client and dev API",
		Long: `hooked drives the Hooked fishing log from the terminal.

The client commands (feed, comments, friends, species, ...) talk to the REST
API at API_BASE_URL with the bearer token in API_TOKEN. "hooked serve" runs a
local API backed by Postgres when DB_DSN is set and by seeded demo data
otherwise.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			if a.baseURL != "" {
				a.cfg.API.BaseURL = strings.TrimRight(a.baseURL, "/")
			}
			if a.token != "" {
				a.cfg.API.Token = a.token
			}
			if a.logLevel != "" {
				a.cfg.App.LogLevel = a.logLevel
			}
			config.SetupLogging(a.cfg.App)
		},
	}

	cmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&a.token, "token", "", "Bearer token (overrides API_TOKEN)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(a),
		tokenCmd(a),
		feedCmd(a),
		postCmd(a),
		likeCmd(a),
		commentsCmd(a),
		commentCmd(a),
		friendsCmd(a),
		approveCmd(a),
		addFriendCmd(a),
		speciesCmd(a),
		catchesCmd(a),
		storiesCmd(a),
		weatherCmd(a),
	)
	return cmd
}
