package rendering

// Section keys
const (
	SectionSummary    = "summary"
	SectionSkills     = "skills"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionVolunteer  = "volunteer"
	SectionStrengths  = "strengths"
	SectionReferences = "references"
)

var canonicalOrder = []string{
	SectionSummary,
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionVolunteer,
	SectionStrengths,
	SectionReferences,
}

var sectionLabels = map[string]string{
	SectionSummary:    "Professional Summary",
	SectionSkills:     "Skills",
	SectionExperience: "Work Experience",
	SectionEducation:  "Education",
	SectionVolunteer:  "Volunteer Experience",
	SectionStrengths:  "Key Strengths",
	SectionReferences: "References",
}

// CanonicalOrder returns a fresh copy of the default section order
func CanonicalOrder() []string {
	return append([]string(nil), canonicalOrder...)
}

// Label returns the display label of a section key, or "" for unknown keys
func Label(key string) string {
	return sectionLabels[key]
}

// IsSection reports whether key is a known section key
func IsSection(key string) bool {
	_, ok := sectionLabels[key]
	return ok
}

// NormalizeOrder drops unknown and duplicate keys, then appends the missing
// canonical keys in canonical order. The result is always a permutation of the
// canonical keys.
func NormalizeOrder(order []string) []string {
	out := make([]string, 0, len(canonicalOrder))
	seen := make(map[string]bool, len(canonicalOrder))
	for _, key := range order {
		if IsSection(key) && !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	for _, key := range canonicalOrder {
		if !seen[key] {
			out = append(out, key)
		}
	}
	return out
}

// MoveSection returns a copy of order with the element at from removed and
// reinserted at index to. Every other element keeps its relative order.
func MoveSection(order []string, from, to int) ([]string, error) {
	n := len(order)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, &InvalidMoveError{From: from, To: to, Len: n}
	}

	out := make([]string, 0, n)
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)

	moved := order[from]
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out, nil
}
