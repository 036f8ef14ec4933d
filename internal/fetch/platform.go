package fetch

import (
	"net/url"
	"slices"
	"strings"
)

// Platform is a job board whose pages get dedicated extraction rules
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// boardRules locates the posting body on one platform's pages
type boardRules struct {
	hosts   []string // host suffixes
	content []string // tried in order; the first match wins
	noise   []string // removed in addition to sharedNoise
}

// boardOrder fixes detection order
var boardOrder = []Platform{PlatformGreenhouse, PlatformLever, PlatformWorkday, PlatformAshby}

var boards = map[Platform]boardRules{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobDescription']", ".job-description", ".gwt-HTML"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='descriptionText']", ".ashby-job-posting-right-pane", "main"},
		noise:   []string{".ashby-application-form-container", "[class*='applicationForm']"},
	},
}

// sharedNoise covers application forms, EEO blocks, share widgets and consent banners
var sharedNoise = []string{
	"form", "#application-form", ".application-form", ".apply-button-container",
	"[data-testid='application-form']",
	".eeo-statement", ".eeo-section", ".voluntary-disclosure", ".self-identification", ".legal-disclosure",
	".social-share", ".share-buttons",
	".cookie-banner", ".cookie-consent", ".gdpr-notice",
}

// DetectPlatform identifies the job board from the URL host
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, p := range boardOrder {
		for _, suffix := range boards[p].hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return p
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the posting body selectors for a platform,
// or the generic job posting selectors for unknown ones
func PlatformContentSelectors(platform Platform) []string {
	if rules, ok := boards[platform]; ok {
		return slices.Clone(rules.content)
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the elements to strip before extraction
func PlatformNoiseSelectors(platform Platform) []string {
	return append(slices.Clone(sharedNoise), boards[platform].noise...)
}
