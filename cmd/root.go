package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "cafehere",
	Short:        "Cafe management backend",
	SilenceUsage: true,
	// with no subcommand the server starts
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, createSuperuserCmd, flushExpiredTokensCmd)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
