package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// jsonSchema is the subset of JSON Schema the provider can enforce
type jsonSchema struct {
	Ref         string                 `json:"$ref"`
	Type        json.RawMessage        `json:"type"`
	Description string                 `json:"description"`
	Enum        []string               `json:"enum"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Required    []string               `json:"required"`
	Items       *jsonSchema            `json:"items"`
	Definitions map[string]*jsonSchema `json:"definitions"`
}

// SchemaFromJSON converts a JSON Schema document into the provider's response
// schema. Local "#/definitions/..." references are inlined; a ["T", "null"]
// type becomes a nullable T.
func SchemaFromJSON(document string) (*genai.Schema, error) {
	var root jsonSchema
	if err := json.Unmarshal([]byte(document), &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	return convertSchema(&root, root.Definitions, "#", 0)
}

const maxSchemaDepth = 32

func convertSchema(s *jsonSchema, defs map[string]*jsonSchema, path string, depth int) (*genai.Schema, error) {
	if depth > maxSchemaDepth {
		return nil, fmt.Errorf("schema at %s is nested too deeply", path)
	}
	if s.Ref != "" {
		name, ok := strings.CutPrefix(s.Ref, "#/definitions/")
		if !ok {
			return nil, fmt.Errorf("schema at %s: unsupported reference %q", path, s.Ref)
		}
		target, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("schema at %s: unknown definition %q", path, name)
		}
		return convertSchema(target, defs, s.Ref, depth+1)
	}

	typeName, nullable, err := schemaType(s.Type)
	if err != nil {
		return nil, fmt.Errorf("schema at %s: %w", path, err)
	}

	out := &genai.Schema{Description: s.Description, Nullable: nullable}
	switch typeName {
	case "object":
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			prop, err := convertSchema(s.Properties[name], defs, path+"/properties/"+name, depth+1)
			if err != nil {
				return nil, err
			}
			out.Properties[name] = prop
		}
		out.Required = append([]string(nil), s.Required...)
	case "array":
		out.Type = genai.TypeArray
		if s.Items == nil {
			return nil, fmt.Errorf("schema at %s: array without items", path)
		}
		items, err := convertSchema(s.Items, defs, path+"/items", depth+1)
		if err != nil {
			return nil, err
		}
		out.Items = items
	case "string":
		out.Type = genai.TypeString
		if len(s.Enum) > 0 {
			out.Format = "enum"
			out.Enum = append([]string(nil), s.Enum...)
		}
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		return nil, fmt.Errorf("schema at %s: unsupported type %q", path, typeName)
	}
	return out, nil
}

// schemaType reads "type": "T" or "type": ["T", "null"]
func schemaType(raw json.RawMessage) (string, bool, error) {
	if len(raw) == 0 {
		return "", false, fmt.Errorf("missing type")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, false, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return "", false, fmt.Errorf("invalid type %s", string(raw))
	}
	typeName, nullable := "", false
	for _, t := range many {
		if t == "null" {
			nullable = true
			continue
		}
		if typeName != "" {
			return "", false, fmt.Errorf("union type %s is not supported", string(raw))
		}
		typeName = t
	}
	if typeName == "" {
		return "", false, fmt.Errorf("type %s has no concrete member", string(raw))
	}
	return typeName, nullable, nil
}
