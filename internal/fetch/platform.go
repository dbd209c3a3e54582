package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known applicant tracking system hosting job postings
type Platform string

// Recognized platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRules struct {
	hosts   []string
	content []string
	noise   []string
}

var platforms = map[Platform]platformRules{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"._descriptionText", "[class*='descriptionText']", "main"},
		noise:   []string{"[class*='applicationForm']"},
	},
}

// commonNoise is removed from every posting: application forms, EEO text
// and share widgets
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the hosting platform from a posting URL
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for p, rules := range platforms {
		for _, h := range rules.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, most
// specific first
func PlatformContentSelectors(platform Platform) []string {
	if rules, ok := platforms[platform]; ok {
		return rules.content
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the selectors stripped before extraction
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string(nil), commonNoise...)
	if rules, ok := platforms[platform]; ok {
		out = append(out, rules.noise...)
	}
	return out
}

// JobPostingSelectors are generic selectors for unrecognized job boards
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}
