package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logscrub/logscrub/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "logscrub",
	Short: "Sanitize sensitive data in log files",
	Long: `Logscrub removes sensitive data from log files before they are shared.

A local pattern detector masks emails, IP addresses, hostnames, API keys,
GUIDs, and SSH key material with deterministic mock values, and an optional
AI provider (openai, azure, ollama) catches what the patterns miss. If no
provider is configured the local detector still produces a complete result.

Examples:
  logscrub sanitize /var/log/app.log
  logscrub sanitize --provider ollama --backup "/var/log/*.log"
  logscrub scan /var/log/app.log
  logscrub watch /var/log/app.log
  logscrub providers`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logscrub.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto, always, never)")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logscrub")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGSCRUB")
	viper.AutomaticEnv()

	config.SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newLogger builds the slog logger commands share. Verbose mode turns on
// debug output.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
