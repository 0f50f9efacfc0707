package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nocur/engine/engine"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available model tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range engine.AvailableModels() {
			marker := " "
			if m.ID == engine.DefaultModel.ID() {
				marker = "*"
			}
			fmt.Printf("%s %-8s %-18s %s\n", marker, m.ID, m.Name, m.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
