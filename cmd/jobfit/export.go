package main

import (
	"fmt"
	"os"

	"github.com/jonathan/jobfit-kit/internal/app"
	"github.com/jonathan/jobfit-kit/internal/rendering"
	"github.com/spf13/cobra"
)

func newExportCmd(o *rootOptions) *cobra.Command {
	var (
		format        string
		outPath       string
		historyID     string
		latexTemplate string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the resume as HTML, LaTeX or PDF",
		Long: `Export the extracted resume in the profile's section order. With --history-id the
optimized resume of that past application is exported instead. PDF export requires Chrome.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := rendering.ParseFormat(format)
			if err != nil {
				return err
			}

			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			a := e.app(cmd.Context())
			var doc rendering.Document
			if historyID == "" {
				doc, err = a.Document()
			} else {
				doc, err = historyDocument(a, historyID)
			}
			if err != nil {
				return err
			}

			data, err := rendering.Export(cmd.Context(), doc, f, rendering.ExportOptions{
				LaTeXTemplate: latexTemplate,
				PDFTimeout:    browserTimeout,
			})
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				_, err = e.out.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			if e.cfg.Verbose {
				_, err = fmt.Fprintf(e.out, "Wrote %s (%d bytes)\n", outPath, len(data))
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(rendering.FormatHTML), "Output format: html, latex or pdf")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (defaults to standard output)")
	cmd.Flags().StringVar(&historyID, "history-id", "", "Export the optimized resume of this past application")
	cmd.Flags().StringVar(&latexTemplate, "latex-template", "", "LaTeX template used instead of the built-in one")
	return cmd
}

// historyDocument lays out the optimized resume of a past application
func historyDocument(a *app.App, id string) (rendering.Document, error) {
	entry, err := a.HistoryEntry(id)
	if err != nil {
		return rendering.Document{}, err
	}
	if entry.Optimization == nil {
		return rendering.Document{}, fmt.Errorf("application %s has no optimized resume; run analyze with --optimize", id)
	}
	return rendering.Render(&entry.Optimization.StructuredResume, a.Profile().SectionOrder), nil
}
