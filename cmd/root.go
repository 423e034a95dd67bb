package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the fixetime application
var rootCmd = &cobra.Command{
	Use:   "fixetime",
	Short: "Triage your inbox and schedule time to deal with it",
	Long: `fixetime classifies the mail in your Gmail inbox (handle / schedule /
ignore) and finds free slots in your Google Calendar to actually work
through it, creating follow-up tasks anchored at the chosen slots.

It can run as:
  - A standalone CLI tool (default: triage)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "fixetime version %s\n" .Version}}`)

	// If no subcommand is provided, run the triage command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "triage")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fixetime version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newTriageCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
