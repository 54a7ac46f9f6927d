package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/loom/pkg/config"
	"github.com/killallgit/loom/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Streaming chat in your terminal",
	Long:  `Loom is a streaming conversational agent for Ollama with optional tool use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := logger.Init(); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		defer logger.Close()

		if prompt := viper.GetString("prompt"); prompt != "" {
			return runOnce(cmd.Context(), cfg, prompt)
		}
		return runREPL(cmd.Context(), cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", ".loom/settings.yaml", "config file")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("url", "http://localhost:11434", "Ollama server URL")
	viper.BindPFlag("ollama.url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().StringP("model", "m", "qwen3:latest", "model name")
	viper.BindPFlag("ollama.model", rootCmd.PersistentFlags().Lookup("model"))

	rootCmd.PersistentFlags().Bool("agent", false, "enable the tool-calling agent loop")
	viper.BindPFlag("agent.enabled", rootCmd.PersistentFlags().Lookup("agent"))

	rootCmd.PersistentFlags().StringP("prompt", "p", "", "send one prompt and exit instead of entering the REPL")
	viper.BindPFlag("prompt", rootCmd.PersistentFlags().Lookup("prompt"))
}
