package rendering

import (
	"strings"

	"github.com/jonathan/jobfit-kit/internal/types"
)

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes the LaTeX special characters \ { } $ & % # ^ _ ~
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}

func escapeJoin(items []string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = EscapeLaTeX(item)
	}
	return strings.Join(escaped, ", ")
}

// contactLine joins the non-empty contact fields with a vertical bar
func contactLine(info types.PersonalInfo) string {
	var parts []string
	for _, v := range []string{info.Email, info.Phone, info.Location} {
		if v != "" {
			parts = append(parts, EscapeLaTeX(v))
		}
	}
	for _, link := range info.Links {
		if link != "" {
			parts = append(parts, `\url{`+strings.NewReplacer(`%`, `\%`, `#`, `\#`).Replace(link)+`}`)
		}
	}
	return strings.Join(parts, ` $|$ `)
}
