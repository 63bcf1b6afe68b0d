package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lueurxax/document-translator/internal/client"
	"github.com/lueurxax/document-translator/internal/core/domain"
	"github.com/lueurxax/document-translator/internal/docview"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputHTML = "html"
)

const notAvailable = "(not available)"

type translateOptions struct {
	endpoint    string
	contentType string
	output      string
}

// TranslateCommand returns the translate command.
func TranslateCommand(logger *zerolog.Logger) *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate a document",
		Long: `Upload a document and print the result.

The content type is detected from the file when --content-type is not given.
The service URL comes from --endpoint, TRANSLATE_API_URL or AZURE_FUNCTION_ENDPOINT.`,
		Args: cobra.ExactArgs(1),
		RunE: runTranslate(logger, &opts),
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Translate service URL")
	cmd.Flags().StringVar(&opts.contentType, "content-type", "", "Document content type (detected when empty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", OutputText, "Output format: text, json or html")

	return cmd
}

func runTranslate(logger *zerolog.Logger, opts *translateOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		switch opts.output {
		case OutputText, OutputJSON, OutputHTML:
		default:
			return fmt.Errorf("unknown output format %q", opts.output)
		}

		cfg, err := client.LoadConfig()
		if err != nil {
			return err
		}

		if opts.endpoint != "" {
			cfg.Endpoint = opts.endpoint
		}

		c, err := client.New(cfg, logger)
		if err != nil {
			return err
		}

		doc, err := client.DocumentFromFile(args[0], opts.contentType)
		if err != nil {
			return err
		}

		result, err := c.Translate(cmd.Context(), doc)
		if err != nil {
			return err
		}

		doc.Name = filepath.Base(doc.Name)

		return writeResult(cmd.OutOrStdout(), opts.output, doc, result)
	}
}

func writeResult(w io.Writer, format string, doc domain.Document, result domain.EnrichedResult) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		return nil
	case OutputHTML:
		renderer, err := docview.NewRenderer()
		if err != nil {
			return err
		}

		return renderer.RenderResult(w, &docview.ResultData{
			FileName: doc.Name,
			Result:   result,
			Embed:    docview.NewEmbedView(doc),
		})
	default:
		return writeText(w, result)
	}
}

func writeText(w io.Writer, result domain.EnrichedResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Detected language: %s (%.0f%%)\n\n", result.DetectedLanguage, result.DetectedLanguageScore*100)
	writeSection(&sb, "Summary", orNotAvailable(result.Summary))
	writeSection(&sb, "Description", orNotAvailable(result.Description))
	writeSection(&sb, "Original text", result.OriginalText)
	writeSection(&sb, "Translated text", result.TranslatedText)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

func writeSection(sb *strings.Builder, title, body string) {
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(title)))
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
}

func orNotAvailable(s *string) string {
	if s == nil {
		return notAvailable
	}

	return *s
}
