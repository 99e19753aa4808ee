// anongo runs the Anon-Go anonymous chat bot.
//
// Usage:
//
//	anongo run        - Start the bot (long polling or webhook)
//	anongo migrate    - Apply database migrations and exit
//	anongo version    - Print build information
//
// Global flags:
//
//	--config <path>   - Config file (default: $CONFIG_PATH or config.yaml)
//	--env-file <path> - Dotenv file loaded before the config (default: .env)
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var (
	flagConfig  string
	flagEnvFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anongo",
	Short: "Anon-Go - anonymous one-to-one chat bot for Telegram",
	Long: `Anon-Go pairs users who are looking for a chat partner and relays
their messages anonymously until one of them ends the chat.

Configuration comes from a YAML file overlaid with environment variables;
a .env file is loaded first when present.

Examples:
  anongo run
  anongo run --config /etc/anongo/config.yaml
  anongo migrate`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return loadEnvFile(flagEnvFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the config file (default $CONFIG_PATH or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file to load before reading config")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is fine.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
