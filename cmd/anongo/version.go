package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aura650/anon-go-bot/core/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "anongo", buildinfo.String())
	},
}
