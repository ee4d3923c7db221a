package main

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/debrief/internal/logging"
)

const notifyTimeout = 5 * time.Second

func analyzeCmd(a *app) *cobra.Command {
	var (
		sessionID   string
		projectPath string
		output      string
		background  bool
		snapshot    bool
		notify      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Extract a briefing from a session",
		Long: `Analyze a Claude Code session and generate a briefing.

Without --session-id the most recently modified session is analyzed.
With --background the command logs to a file, never fails the caller
and releases the session lock on exit; this is the mode the Stop hook
runs in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if background {
				runBackground(a, sessionID, projectPath, snapshot, notify)
				return nil
			}

			pipe := a.pipeline()
			run := pipe.Run
			if snapshot {
				run = pipe.RunSnapshot
			}

			b, err := run(cmd.Context(), sessionID, projectPath)
			if err != nil {
				return err
			}

			switch output {
			case "json":
				data, err := json.MarshalIndent(b, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			case "markdown":
				fmt.Println(b.ToMarkdown())
			default:
				fmt.Println(a.out.BriefingResult(b))
			}

			if notify {
				notifyDesktop(a, b.SessionID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session-id", "s", "", "Session to analyze (default: most recent)")
	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "Limit session lookup to a project path")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or markdown")
	cmd.Flags().BoolVar(&background, "background", false, "Run as a background hook job")
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "Store a timestamped snapshot instead of the final briefing")
	cmd.Flags().BoolVar(&notify, "notify", false, "Send a desktop notification when done")

	return cmd
}

// runBackground is the hook-spawned path. It must never propagate a
// failure: the parent session has already ended and there is nobody to
// report to except the log file. The session lock is released on every
// exit path so a failed run doesn't block the next one.
func runBackground(a *app, sessionID, projectPath string, snapshot, notify bool) {
	log, err := logging.OpenFileLog(a.cfg.LogsDir, sessionID)
	if err != nil {
		return
	}
	defer log.Close()
	defer a.locks.Remove(sessionID)

	log.Printf("analysis started (snapshot=%v)", snapshot)

	ctx := context.Background()
	pipe := a.pipeline()
	run := pipe.Run
	if snapshot {
		run = pipe.RunSnapshot
	}

	b, err := run(ctx, sessionID, projectPath)
	if err != nil {
		log.Printf("analysis failed: %v", err)
		return
	}

	log.Printf("briefing saved for session %s (%d files, %d patterns)",
		b.SessionID, len(b.WhatGotBuilt), len(b.PatternsUsed))

	if notify {
		notifyDesktop(a, b.SessionID)
	}
}

// notifyDesktop sends a best-effort desktop notification.
func notifyDesktop(a *app, sessionID string) {
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	message := fmt.Sprintf("Session %s analyzed", short)

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "debrief"`, message)
		a.runner.Output(ctx, "", "osascript", "-e", script)
	case "linux":
		a.runner.Output(ctx, "", "notify-send", "debrief", message)
	}
}
