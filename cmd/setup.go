package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/halloki/llamaup/internal/config"
	"github.com/halloki/llamaup/internal/ollama"
	"github.com/halloki/llamaup/internal/setup"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install Ollama, start its service, and pull a model",
	Long: `Run the full bootstrap sequence:

  1. install Ollama if the binary is not on PATH
  2. start "ollama serve" in the background if the service is not answering
  3. pull the configured model (default ` + config.DefaultModel + `)

Each step is skipped when its outcome is already in place, so running
setup again on a working machine is a no-op. The first failing step
aborts the run with exit code 1.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			cfg.Model = model
		}
		if cmd.Flags().Changed("ready-timeout") {
			timeout, _ := cmd.Flags().GetDuration("ready-timeout")
			cfg.ReadyTimeout.Duration = timeout
		}
		skipPull, _ := cmd.Flags().GetBool("skip-pull")

		if err := config.EnsureDirs(cfg); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		orch := setup.New(setup.Config{
			Model:        cfg.Model,
			InstallURL:   cfg.InstallURL,
			ReadyTimeout: cfg.ReadyTimeout.Duration,
			LogDir:       cfg.LogDir,
			SkipPull:     skipPull,
		}, ollama.NewClient(cfg.HostURL))

		return orch.Run(ctx)
	},
}

func init() {
	setupCmd.Flags().String("model", "", "model to pull (default "+config.DefaultModel+")")
	setupCmd.Flags().Duration("ready-timeout", 30*time.Second, "how long to wait for the service to answer")
	setupCmd.Flags().Bool("skip-pull", false, "stop after the service is up")
	rootCmd.AddCommand(setupCmd)
}
