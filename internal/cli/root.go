// Package cli defines the giftlist command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/five82/giftlist/internal/app"
)

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRoot().ExecuteContext(ctx)
}

var runTUI = app.Run

func NewRoot() *cobra.Command {
	var opts app.Options
	root := &cobra.Command{
		Use:           "giftlist",
		Short:         "Terminal client for shared gift wishlists",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/giftlist/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/giftlist/prefs.toml)")
	flags.StringVar(&opts.APIURL, "api", "", "backend URL, overrides config and GIFTLIST_API_URL")
	flags.StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(
		listCmd(&opts),
		roleCmd(&opts),
	)
	return root
}

func listCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every wishlist and item as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.List(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}
}

func roleCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:       "role <creator|viewer>",
		Short:     "Switch the session role and print the granted role",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"creator", "viewer"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.SwitchRole(cmd.Context(), *opts, args[0], cmd.OutOrStdout())
		},
	}
}
