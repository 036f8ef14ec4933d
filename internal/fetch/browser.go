package fetch

import "strings"

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// Shorter pages are likely JavaScript-rendered and need the headless browser.
const MinContentLength = 500

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}
