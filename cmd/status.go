package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/halloki/llamaup/internal/ollama"
	"github.com/halloki/llamaup/internal/setup"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the local Ollama installation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := ollama.NewClient(cfg.HostURL)

		if setup.ToolInstalled() {
			fmt.Println("binary:  installed")
		} else {
			fmt.Println("binary:  not found on PATH")
		}

		if pid, ok := setup.ProcessListed(cmd.Context()); ok {
			fmt.Printf("process: running (PID %d)\n", pid)
		} else {
			fmt.Println("process: not found")
		}

		ctx := cmd.Context()
		probeCtx, probeCancel := context.WithTimeout(ctx, 2*time.Second)
		defer probeCancel()

		if err := client.Heartbeat(probeCtx); err != nil {
			fmt.Printf("service: not answering at %s\n", client.BaseURL())
			return nil
		}

		version, err := client.Version(probeCtx)
		if err != nil {
			fmt.Printf("service: answering at %s\n", client.BaseURL())
		} else {
			fmt.Printf("service: answering at %s (version %s)\n", client.BaseURL(), version)
		}

		models, err := client.Tags(ctx)
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}
		fmt.Printf("models:  %d installed\n", len(models))

		loaded, err := client.Ps(ctx)
		if err == nil && len(loaded) > 0 {
			for _, m := range loaded {
				fmt.Printf("loaded:  %s\n", m.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
