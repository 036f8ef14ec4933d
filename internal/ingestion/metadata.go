package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// JobDescription is a cleaned job posting ready for analysis
type JobDescription struct {
	Text     string
	Metadata *Metadata
}

// Metadata describes where a job description came from
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Timestamp string `json:"timestamp"`          // RFC3339 format
	Hash      string `json:"hash"`               // SHA256 hex digest of the cleaned text
	Platform  string `json:"platform,omitempty"` // Detected job board platform
	FromCache bool   `json:"from_cache,omitempty"`
	Rendered  bool   `json:"rendered,omitempty"` // Text came from the headless browser
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
