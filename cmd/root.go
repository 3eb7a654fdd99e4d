package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log/v2"
	"github.com/spf13/cobra"

	"github.com/halloki/llamaup/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "llamaup",
	Short:         "Set up and drive a local Ollama installation",
	Long:          "llamaup installs the Ollama model-serving tool, keeps its background service running, and manages local models.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
	}
	return err
}

// loadConfig reads the config file and applies the global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.HostURL = host
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().String("host", "", "Ollama daemon URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}
