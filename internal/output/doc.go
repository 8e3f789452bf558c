// Package output provides colored terminal output for the rosterdesk CLI.
//
// The package offers a simple API for printing colored messages to the terminal
// with automatic color detection and graceful fallback for non-terminal environments.
// Replies from the assistant go to stdout; status, errors and the wait spinner
// go to stderr so piped replies stay clean.
//
// Example usage:
//
//	printer := output.NewPrinter()
//	progress := printer.StartProgress("Asking the assistant")
//	reply, err := svc.Ask(ctx, threadID, role, question)
//	progress.Stop()
//	printer.Reply(reply.Text)
package output
