// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/jobfit-kit/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending in "..." when cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit bullet items followed by a remainder line
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintResumeAnalysis outputs a summary of an extracted resume.
func (p *Printer) PrintResumeAnalysis(resume *types.ResumeAnalysis) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	info := resume.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:     %s\n", info.Name))
	if info.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", info.Email))
	}
	if info.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", info.Location))
	}
	sb.WriteString("\n")

	skills := make([]string, 0, len(resume.Skills.Technical)+len(resume.Skills.Tools))
	skills = append(skills, resume.Skills.Technical...)
	skills = append(skills, resume.Skills.Tools...)
	writeList(&sb, "Skills", skills, maxItemsToShow)

	if len(resume.WorkExperience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(resume.WorkExperience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := resume.WorkExperience[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s", exp.Role, exp.Company))
			if exp.Duration != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", exp.Duration))
			}
			sb.WriteString("\n")
		}
		if len(resume.WorkExperience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.WorkExperience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(resume.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education: %d entries\n", len(resume.Education)))
	}

	p.printBox("EXTRACTED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplicationAnalysis outputs the score, verdict and gap analysis of one run.
func (p *Printer) PrintApplicationAnalysis(analysis *types.ApplicationAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:      %s\n", analysis.Job.RoleTitle))
	if analysis.Job.CompanyName != nil {
		sb.WriteString(fmt.Sprintf("Company:   %s\n", *analysis.Job.CompanyName))
	}
	m := analysis.MatchAnalysis
	sb.WriteString(fmt.Sprintf("Score:     %d/100\n", m.Score))
	sb.WriteString(fmt.Sprintf("Verdict:   %s\n", m.Verdict))
	sb.WriteString(fmt.Sprintf("Interview: %s\n", m.InterviewProbability))
	sb.WriteString("\n")

	if len(m.ComparisonTable) > 0 {
		sb.WriteString("Requirements:\n")
		for _, row := range m.ComparisonTable {
			sb.WriteString(fmt.Sprintf("%s %s\n", statusIcon(row.Status), row.Requirement))
		}
		sb.WriteString("\n")
	}

	if m.Reasoning != "" {
		sb.WriteString(truncate(m.Reasoning, (boxWidth-4)*2))
	}

	p.printBox(fmt.Sprintf("APPLICATION ANALYSIS %s", analysis.ID), strings.TrimSuffix(sb.String(), "\n"))
}

func statusIcon(status types.MatchStatus) string {
	switch status {
	case types.StatusMatch:
		return "✓"
	case types.StatusPartial:
		return "~"
	default:
		return "✗"
	}
}

// PrintOptimization outputs the score change and replaced terms of an optimization.
func (p *Printer) PrintOptimization(opt *types.ResumeOptimization) {
	if opt == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d → %d\n\n", opt.OriginalScore, opt.NewScore))

	if len(opt.Changes) > 0 {
		sb.WriteString(fmt.Sprintf("%d changes:\n\n", len(opt.Changes)))
		count := min(len(opt.Changes), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := opt.Changes[i]
			sb.WriteString(fmt.Sprintf("[%s] %s → %s\n", c.Type, c.OriginalTerm, c.NewTerm))
		}
		if len(opt.Changes) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more changes\n", len(opt.Changes)-maxItemsToShow))
		}
	}

	p.printBox("RESUME OPTIMIZATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs the stored profile without the resume body.
func (p *Printer) PrintProfile(profile types.UserProfile) {
	var sb strings.Builder
	role := profile.TargetRole
	if role == "" {
		role = "(not set)"
	}
	sb.WriteString(fmt.Sprintf("Target role: %s\n", role))

	switch {
	case profile.ResumeFile != nil:
		sb.WriteString(fmt.Sprintf("Resume:      %s (%s)\n", profile.ResumeFile.Name, profile.ResumeFile.MimeType))
	case profile.ResumeText != "":
		sb.WriteString(fmt.Sprintf("Resume:      %d characters of text\n", len([]rune(profile.ResumeText))))
	default:
		sb.WriteString("Resume:      (none)\n")
	}

	if profile.Analysis != nil {
		sb.WriteString(fmt.Sprintf("Analyzed:    %s\n", profile.Analysis.PersonalInfo.Name))
	} else {
		sb.WriteString("Analyzed:    no\n")
	}
	if len(profile.SectionOrder) > 0 {
		sb.WriteString(fmt.Sprintf("Sections:    %s\n", strings.Join(profile.SectionOrder, ", ")))
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs one line per stored analysis, newest first.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintHistory(history []types.ApplicationAnalysis) {
	if len(history) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO PAST APPLICATIONS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, a := range history {
		company := ""
		if a.Job.CompanyName != nil {
			company = " @ " + *a.Job.CompanyName
		}
		marker := ""
		if a.Optimization != nil {
			marker = " *"
		}
		sb.WriteString(fmt.Sprintf("%3d  %s%s%s\n", a.MatchAnalysis.Score, a.Job.RoleTitle, company, marker))
		sb.WriteString(fmt.Sprintf("     %s  %s", a.CreatedAt().UTC().Format(time.DateTime), a.ID))
		if i < len(history)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("PAST APPLICATIONS (%d)", len(history)), sb.String())
}
