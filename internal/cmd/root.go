package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logreflector",
	Short: "logreflector — read-only JSON query API over an event log",
	Long: `logreflector exposes an append-only, timestamped event log as a small
read-only JSON API: live recent entries plus historical per-day files,
with source filtering, text search, and reverse-chronological pagination.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logreflector.yaml)")
	rootCmd.PersistentFlags().String("logs-dir", "./logs", "directory holding the per-day Events.txt files")
	_ = viper.BindPFlag("logsDir", rootCmd.PersistentFlags().Lookup("logs-dir"))

	viper.SetDefault("defaultLineCount", 500)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logreflector")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
