// Package main provides a command line client for the document translator service.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "translate-cli",
		Short: "Document translator client",
		Long: `Document translator client

Uploads PDF, JPEG, PNG or DOCX files to a running document translator service
and prints the extracted text, its translation, summary and description.`,

		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.AddCommand(TranslateCommand(&logger))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
