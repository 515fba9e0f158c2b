package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title           Voice Memo API
// @version         1.0
// @description     Upload voice memos, poll their transcripts, comment on them and ask questions about them.

// @BasePath  /

var rootCmd = &cobra.Command{
	Use:   "voice-memo",
	Short: "Voice memo transcription and annotation service",
	Long: `Voice memo transcription and annotation service.

Without a subcommand the HTTP server is started.

Examples:
  voice-memo
  voice-memo serve
  voice-memo transcribe ./standup.m4a`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, transcribeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
