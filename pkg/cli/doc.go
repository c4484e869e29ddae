// Package cli provides the terminal-facing utilities halocctl's commands
// share.
//
// This package includes:
//   - Output formatting for "config show" (JSON, YAML, raw)
//   - Request file loading for "config save --file" (YAML/JSON)
//   - A ring-buffer-backed log writer backing "watch"'s event-log tail
//   - lipgloss-based terminal styling and a box-drawn TUI frame, also for "watch"
//
// Example usage:
//
//	cli.Output(cfg, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
