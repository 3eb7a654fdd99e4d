package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/halloki/llamaup/internal/ollama"
	"github.com/halloki/llamaup/pkg/api"
)

var pullCmd = &cobra.Command{
	Use:   "pull <model>",
	Short: "Download a model through the Ollama daemon",
	Long: `Download a model, blocking until it is complete.

Examples:
  llamaup pull llama3.2
  llamaup pull qwen2.5:7b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		model := args[0]
		client := ollama.NewClient(cfg.HostURL)

		fmt.Printf("Pulling %s...\n", model)

		var lastStatus string
		err = client.Pull(cmd.Context(), model, func(p api.PullProgress) {
			switch {
			case p.Total > 0:
				pct := float64(p.Completed) / float64(p.Total) * 100
				fmt.Printf("\r  %s: %.1f%% (%s / %s)   ",
					p.Status, pct, humanize.Bytes(uint64(p.Completed)), humanize.Bytes(uint64(p.Total)))
			case p.Status != lastStatus:
				fmt.Printf("\n  %s", p.Status)
			}
			lastStatus = p.Status
		})
		fmt.Println()
		if err != nil {
			return err
		}

		fmt.Printf("Model %s is ready.\n", model)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
