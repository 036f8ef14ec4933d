// Package prompts serves the embedded prompt templates sent to the model.
// Templates are JSON objects of key to text with {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Gateway is the prompt file of the AI gateway
const Gateway = "gateway.json"

var placeholder = regexp.MustCompile(`\{\{\.[A-Za-z][A-Za-z0-9]*\}\}`)

// parsed holds the decoded prompt files by name
var parsed sync.Map

// Get retrieves a prompt by filename and key
func Get(filename, key string) (string, error) {
	set, err := load(filename)
	if err != nil {
		return "", err
	}
	if text, ok := set[key]; ok {
		return text, nil
	}
	return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
}

// MustGet is Get for prompts that ship with the binary. A miss panics.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic("prompts: " + err.Error())
	}
	return text
}

// Format replaces {{.Key}} placeholders with values from data. Unknown
// placeholders are left in place.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render loads a prompt and fills it. Placeholders left without a value are an error.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	var unresolved []string
	for _, p := range placeholder.FindAllString(template, -1) {
		name := p[len("{{.") : len(p)-len("}}")]
		if _, ok := data[name]; !ok && !slices.Contains(unresolved, name) {
			unresolved = append(unresolved, name)
		}
	}
	if len(unresolved) > 0 {
		return "", fmt.Errorf("prompt %s/%s: no value for %s", filename, key, strings.Join(unresolved, ", "))
	}
	return Format(template, data), nil
}

func load(filename string) (map[string]string, error) {
	if set, ok := parsed.Load(filename); ok {
		return set.(map[string]string), nil
	}

	raw, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	set := map[string]string{}
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	actual, _ := parsed.LoadOrStore(filename, set)
	return actual.(map[string]string), nil
}

// ClearCache drops every decoded prompt file
func ClearCache() {
	parsed.Clear()
}

// List returns the sorted prompt keys of a file
func List(filename string) ([]string, error) {
	set, err := load(filename)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(set)), nil
}
