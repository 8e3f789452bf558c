package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type askFlags struct {
	threadID string
	role     string
	end      bool
}

// newAskCommand creates the ask subcommand
func newAskCommand(deps *Dependencies, configPath *string) *cobra.Command {
	flags := &askFlags{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the scheduling assistant a question",
		Long: `Ask the scheduling assistant one question and print its reply.

The thread id is printed after the reply; pass it back with --thread to
continue the same conversation.

Examples:
  rosterdesk ask "Which shifts does Asha have this week?"
  rosterdesk ask "Swap Ben's evening on 2025-03-14 with Carla" --role scheduler
  rosterdesk ask "And the week after?" --thread thread_abc123`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("requires a question (use quotes for multi-word questions)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), deps, *configPath, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.threadID, "thread", "t", "", "Continue an existing conversation")
	cmd.Flags().StringVarP(&flags.role, "role", "r", "staff", "Caller role (for example staff, scheduler, admin)")
	cmd.Flags().BoolVar(&flags.end, "end", false, "Delete the conversation after the reply")

	return cmd
}

func runAsk(ctx context.Context, deps *Dependencies, configPath, question string, flags *askFlags) error {
	cfg, err := loadConfig(deps, configPath)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, deps, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	printer := deps.Printer
	progress := printer.StartProgress("Asking the assistant")
	reply, err := a.assistant.Ask(ctx, flags.threadID, flags.role, question)
	progress.Stop()
	elapsed := progress.Elapsed().Round(time.Millisecond)
	if err != nil {
		if reply.ThreadID != "" {
			printer.Detail("thread %s", reply.ThreadID)
		}
		return fmt.Errorf("assistant request failed: %w", err)
	}

	printer.Reply(reply.Text)
	if cfg.IsVerbose() {
		printer.Detail("run %s, %d tool round(s), %s", reply.RunID, reply.ToolRounds, elapsed)
	}

	if flags.end {
		if err := a.assistant.EndConversation(ctx, reply.ThreadID); err != nil {
			printer.Warning("Failed to end conversation: %v", err)
			return nil
		}
		printer.Success("Conversation ended")
		return nil
	}
	printer.Detail("thread %s", reply.ThreadID)
	return nil
}
