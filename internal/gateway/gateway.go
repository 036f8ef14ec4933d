// Package gateway performs the three schema-constrained model operations:
// resume extraction, job-fit analysis and resume optimization.
package gateway

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobfit-kit/internal/llm"
	"github.com/jonathan/jobfit-kit/internal/metrics"
	"github.com/jonathan/jobfit-kit/internal/prompts"
	"github.com/jonathan/jobfit-kit/internal/schemas"
	"github.com/jonathan/jobfit-kit/internal/types"
	"go.uber.org/zap"
)

// Operation names one gateway operation
type Operation string

// Gateway operations
const (
	OpExtractResume      Operation = "extract_resume"
	OpAnalyzeApplication Operation = "analyze_application"
	OpOptimizeResume     Operation = "optimize_resume"
)

// Gateway turns profiles and job descriptions into model requests and
// validated domain values.
type Gateway struct {
	client llm.Client
	logger *zap.Logger
}

// New returns a gateway over client
func New(client llm.Client, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{client: client, logger: logger}
}

// ExtractResume extracts the structured resume from the profile's resume source
func (g *Gateway) ExtractResume(ctx context.Context, profile types.UserProfile) (*types.ResumeAnalysis, error) {
	resume, err := resumeParts(profile)
	if err != nil {
		return nil, err
	}

	instruction, err := prompts.Render(prompts.Gateway, "extract-resume", nil)
	if err != nil {
		return nil, &AIResponseError{Operation: OpExtractResume, Message: "failed to build prompt", Cause: err}
	}

	var out types.ResumeAnalysis
	err = g.generate(ctx, OpExtractResume, schemas.ResumeAnalysis, &llm.Request{
		SystemInstruction: prompts.MustGet(prompts.Gateway, "extract-resume-system"),
		Parts:             append([]llm.Part{llm.TextPart(instruction)}, resume...),
		Tier:              llm.TierStandard,
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Normalize()
	return &out, nil
}

// AnalyzeApplication scores the profile against a job description and drafts a
// cover letter. The returned analysis has no ID or timestamp.
func (g *Gateway) AnalyzeApplication(ctx context.Context, jobDescription string, profile types.UserProfile, instructions string) (*types.ApplicationAnalysis, error) {
	resume, err := resumeParts(profile)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &InputError{Field: "jobDescription", Message: "job description is required"}
	}
	if strings.TrimSpace(instructions) == "" {
		instructions = prompts.MustGet(prompts.Gateway, "default-cover-letter-instructions")
	}

	instruction, err := prompts.Render(prompts.Gateway, "analyze-application", map[string]string{
		"Instructions":   instructions,
		"TargetRole":     targetRole(profile),
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, &AIResponseError{Operation: OpAnalyzeApplication, Message: "failed to build prompt", Cause: err}
	}

	var out types.ApplicationAnalysis
	err = g.generate(ctx, OpAnalyzeApplication, schemas.ApplicationAnalysis, &llm.Request{
		SystemInstruction: prompts.MustGet(prompts.Gateway, "analyze-application-system"),
		Parts:             append([]llm.Part{llm.TextPart(instruction)}, resume...),
		Tier:              llm.TierStandard,
	}, &out)
	if err != nil {
		return nil, err
	}
	out.ID = ""
	out.Timestamp = 0
	out.Optimization = nil
	out.Normalize()
	return &out, nil
}

// OptimizeResume rewrites the resume toward the job description. The result's
// OriginalScore is currentScore.
func (g *Gateway) OptimizeResume(ctx context.Context, jobDescription string, profile types.UserProfile, currentScore types.Score) (*types.ResumeOptimization, error) {
	resume, err := resumeParts(profile)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &InputError{Field: "jobDescription", Message: "job description is required"}
	}

	instruction, err := prompts.Render(prompts.Gateway, "optimize-resume", map[string]string{
		"CurrentScore":   strconv.Itoa(int(currentScore)),
		"TargetRole":     targetRole(profile),
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, &AIResponseError{Operation: OpOptimizeResume, Message: "failed to build prompt", Cause: err}
	}

	var out types.ResumeOptimization
	err = g.generate(ctx, OpOptimizeResume, schemas.ResumeOptimization, &llm.Request{
		SystemInstruction: prompts.MustGet(prompts.Gateway, "optimize-resume-system"),
		Parts:             append([]llm.Part{llm.TextPart(instruction)}, resume...),
		Tier:              llm.TierAdvanced,
	}, &out)
	if err != nil {
		return nil, err
	}
	out.OriginalScore = currentScore
	out.Normalize()
	return &out, nil
}

// generate runs one model call, validates the reply against the named schema
// and decodes it into out.
func (g *Gateway) generate(ctx context.Context, op Operation, schemaName string, req *llm.Request, out any) error {
	req.Schema = schemas.MustGet(schemaName)

	start := time.Now()
	err := g.call(ctx, op, schemaName, req, out)
	elapsed := time.Since(start)

	metrics.AICallDuration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
		g.logger.Warn("AI call failed", zap.String("operation", string(op)), zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		g.logger.Debug("AI call completed", zap.String("operation", string(op)), zap.Duration("elapsed", elapsed),
			zap.String("model", g.client.GetModel(req.Tier)))
	}
	metrics.AICalls.WithLabelValues(string(op), outcome).Inc()
	return err
}

func (g *Gateway) call(ctx context.Context, op Operation, schemaName string, req *llm.Request, out any) error {
	raw, err := g.client.GenerateJSON(ctx, req)
	if err != nil {
		return &AIResponseError{Operation: op, Message: "model call failed", Cause: err}
	}
	if strings.TrimSpace(raw) == "" {
		return &AIResponseError{Operation: op, Message: "empty response"}
	}
	if err := schemas.Validate(schemaName, raw); err != nil {
		return &AIResponseError{Operation: op, Message: "response does not match schema", Cause: err}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &AIResponseError{Operation: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// resumeParts returns the resume as request parts: a text part, or an inline
// blob followed by a caption.
func resumeParts(profile types.UserProfile) ([]llm.Part, error) {
	source, err := profile.Source()
	if err != nil {
		return nil, &MissingResumeError{Message: "upload or paste a resume first", Cause: err}
	}
	if source.IsText() {
		text := prompts.Format(prompts.MustGet(prompts.Gateway, "resume-text"), map[string]string{"ResumeText": source.Text})
		return []llm.Part{llm.TextPart(text)}, nil
	}

	name := ""
	if profile.ResumeFile != nil {
		name = profile.ResumeFile.Name
	}
	caption := prompts.Format(prompts.MustGet(prompts.Gateway, "resume-file-caption"), map[string]string{"Name": name})
	return []llm.Part{llm.BlobPart(source.MimeType, source.Data), llm.TextPart(caption)}, nil
}

func targetRole(profile types.UserProfile) string {
	if role := strings.TrimSpace(profile.TargetRole); role != "" {
		return role
	}
	return prompts.MustGet(prompts.Gateway, "default-target-role")
}
