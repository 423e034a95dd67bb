// Package cmd implements the command-line interface for fixetime.
//
// This package provides the following commands:
//   - triage: Classify the Gmail inbox into handle / schedule / ignore decisions
//   - slots: Show free slots, conflicts and workload for a calendar day
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The triage command is the default command when no subcommand is specified.
package cmd
