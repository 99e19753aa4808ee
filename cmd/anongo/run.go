package main

import (
	"github.com/spf13/cobra"

	"github.com/aura650/anon-go-bot/bot"
	corecmd "github.com/aura650/anon-go-bot/core/cmd"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	Long: `Start the bot and serve updates until SIGINT or SIGTERM.

The logger, the database (for the sql store backend) with its migrations
and the profile store are brought up first. The waiting queue and the
active chats live in memory and are dropped on exit.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return corecmd.Run(cmd.Context(), corecmd.Options{
			ConfigPath:        flagConfig,
			DefaultConfigPath: defaultConfigPath,
			LoadConfig:        bot.LoadConfig,
			Bootstrap:         bot.Bootstrap,
		})
	},
}
