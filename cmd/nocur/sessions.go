package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nocur/engine/prefs"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List named sessions and the project's active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveProjectDir()
		if err != nil {
			return err
		}

		prefsFile, err := prefs.DefaultFile()
		if err != nil {
			return err
		}

		activeID, hasActive, err := prefsFile.ActiveSession(dir)
		if err != nil {
			return err
		}

		names, err := prefsFile.SessionNames()
		if err != nil {
			return err
		}

		if len(names) == 0 && !hasActive {
			fmt.Println("No sessions recorded.")
			return nil
		}

		for id, name := range names {
			marker := " "
			if hasActive && id == activeID {
				marker = "*"
			}
			fmt.Printf("%s %-14s %s\n", marker, name, id)
		}
		if hasActive {
			if _, named := names[activeID]; !named {
				fmt.Printf("* %-14s %s\n", "(unnamed)", activeID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
