package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nocur/engine/playbook"
)

var playbookCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Inspect and edit the project's playbook",
}

var playbookShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the project's active bullets",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveProjectDir()
		if err != nil {
			return err
		}

		store, err := playbook.DefaultStore()
		if err != nil {
			return err
		}

		pb, err := store.Load(dir)
		if err != nil {
			return err
		}
		if pb == nil {
			fmt.Println("No playbook for this project.")
			return nil
		}

		for _, b := range pb.ActiveBullets() {
			fmt.Printf("[%s] %s (+%d/-%d)\n  %s\n", b.Section, b.ID, b.HelpfulCount, b.HarmfulCount, b.Content)
		}
		return nil
	},
}

var playbookAddCmd = &cobra.Command{
	Use:   "add <section> <content>",
	Short: "Add a bullet to the project's playbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveProjectDir()
		if err != nil {
			return err
		}

		store, err := playbook.DefaultStore()
		if err != nil {
			return err
		}

		b, err := store.AddBullet(dir, playbook.Section(args[0]), args[1])
		if err != nil {
			return err
		}
		fmt.Println(b.ID)
		return nil
	},
}

var playbookSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the reflector output schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := os.Stdout.Write(append(playbook.ReflectionSchema(), '\n'))
		return err
	},
}

func init() {
	rootCmd.AddCommand(playbookCmd)
	playbookCmd.AddCommand(playbookShowCmd)
	playbookCmd.AddCommand(playbookAddCmd)
	playbookCmd.AddCommand(playbookSchemaCmd)
}
