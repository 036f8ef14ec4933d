package main

import (
	"fmt"

	"github.com/jonathan/jobfit-kit/internal/ingestion"
	"github.com/jonathan/jobfit-kit/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// analyzeOutput is the JSON printed by the analyze command
type analyzeOutput struct {
	Analysis     *types.ApplicationAnalysis `json:"analysis"`
	Optimization *types.ResumeOptimization  `json:"optimization,omitempty"`
}

func newAnalyzeCmd(o *rootOptions) *cobra.Command {
	var (
		jobFile      string
		jobURL       string
		instructions string
		optimize     bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score the resume against a job description and write a cover letter",
		Long: `Analyze the stored resume against a job description read from a file (--job)
or fetched from a posting URL (--job-url). The result is added to the history.
With --optimize the resume is also rewritten for the posting's ATS keywords.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jobFile == "" && jobURL == "" {
				return fmt.Errorf("either --job or --job-url must be provided")
			}
			if jobFile != "" && jobURL != "" {
				return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
			}

			e, err := o.open(cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			var job *ingestion.JobDescription
			if jobFile != "" {
				job, err = ingestion.JobFromFile(jobFile)
			} else {
				job, err = ingestion.JobFromURL(ctx, jobURL, jobOptions(e))
			}
			if err != nil {
				return fmt.Errorf("failed to load job description: %w", err)
			}
			e.logger.Debug("job description loaded", zap.Int("chars", len(job.Text)))

			a := e.app(ctx)
			out := analyzeOutput{}
			out.Analysis, err = a.AnalyzeApplication(ctx, job.Text, instructions)
			if err != nil {
				return err
			}
			if optimize {
				out.Optimization, err = a.OptimizeResume(ctx)
				if err != nil {
					return err
				}
			}

			if !e.cfg.Verbose {
				return e.printJSON(out)
			}
			e.printer.PrintApplicationAnalysis(out.Analysis)
			e.printer.PrintOptimization(out.Optimization)
			_, err = fmt.Fprintf(e.out, "\n%s\n", out.Analysis.CoverLetter)
			return err
		},
	}
	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to job description text or HTML file (mutually exclusive with --job-url)")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	cmd.Flags().StringVarP(&instructions, "instructions", "i", "", "Extra instructions for the cover letter")
	cmd.Flags().BoolVar(&optimize, "optimize", false, "Also produce an ATS-optimized resume")
	return cmd
}
