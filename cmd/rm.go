package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halloki/llamaup/internal/ollama"
)

var rmCmd = &cobra.Command{
	Use:   "rm <model>",
	Short: "Remove a locally installed model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		model := args[0]
		client := ollama.NewClient(cfg.HostURL)

		if err := client.Delete(cmd.Context(), model); err != nil {
			return err
		}
		fmt.Printf("Removed %s.\n", model)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
