package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/halloki/llamaup/internal/ollama"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally installed models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := ollama.NewClient(cfg.HostURL)

		models, err := client.Tags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		if len(models) == 0 {
			fmt.Println("No models installed. Try: llamaup pull llama3.2")
			return nil
		}

		fmt.Printf("%-40s %10s  %s\n", "NAME", "SIZE", "MODIFIED")
		for _, m := range models {
			fmt.Printf("%-40s %10s  %s\n", m.Name, humanize.Bytes(uint64(m.Size)), humanize.Time(m.ModifiedAt))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
