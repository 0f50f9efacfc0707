package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nocur/engine/config"
	"github.com/nocur/engine/engine"
	"github.com/nocur/engine/prefs"
	"github.com/nocur/engine/protocol"
)

var (
	runModel           string
	runResume          string
	runSkipPermissions bool
)

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Run a single agent task and stream its events",
	Long: `Run starts a worker session in the project directory, sends the prompt,
and prints every normalized event as one JSON object per line until the
worker reports a final result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveProjectDir()
		if err != nil {
			return err
		}

		cfg, err := config.Load(dir)
		if err != nil {
			return fmt.Errorf("load project config: %w", err)
		}

		prefsFile, err := prefs.DefaultFile()
		if err != nil {
			return err
		}
		userPrefs, err := prefsFile.Load()
		if err != nil {
			return err
		}

		model := resolveModel(runModel, cfg.Model, userPrefs.Model)
		skipPermissions := runSkipPermissions || cfg.SkipPermissions || userPrefs.SkipPermissions

		log := newLogger()
		enc := json.NewEncoder(os.Stdout)
		done := make(chan struct{})

		sink := engine.SinkFunc(func(ev protocol.Event) {
			if err := enc.Encode(ev); err != nil {
				log.Error("encode event", "error", err)
			}
			if ev.Type == protocol.EventTypeResult || ev.Type == protocol.EventTypeStopped {
				select {
				case <-done:
				default:
					close(done)
				}
			}
		})

		opts := []engine.Option{
			engine.WithWorkingDir(dir),
			engine.WithModel(model),
			engine.WithSink(sink),
			engine.WithLogger(log),
		}
		if cfg.Worker != "" {
			opts = append(opts, engine.WithWorkerPath(cfg.Worker))
		}
		if runResume != "" {
			opts = append(opts, engine.WithResume(runResume))
		}
		if skipPermissions {
			opts = append(opts, engine.WithSkipPermissions())
		}

		session := engine.NewSession(opts...)
		if err := session.Start(cmd.Context()); err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		defer session.Close()

		if err := prefsFile.SetActiveSession(dir, session.ID()); err != nil {
			log.Warn("record active session", "error", err)
		}

		if err := session.SendMessage(strings.Join(args, " ")); err != nil {
			return fmt.Errorf("send prompt: %w", err)
		}

		select {
		case <-done:
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runModel, "model", "", "Model to use (sonnet, opus, haiku)")
	runCmd.Flags().StringVar(&runResume, "resume", "", "Session ID to resume")
	runCmd.Flags().BoolVar(&runSkipPermissions, "skip-permissions", false, "Disable worker permission prompts")
}

// resolveModel picks the first configured model from flag, project config,
// then user preferences, falling back to the engine default.
func resolveModel(candidates ...string) engine.Model {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if m, ok := engine.ParseModel(c); ok {
			return m
		}
	}
	return engine.DefaultModel
}
