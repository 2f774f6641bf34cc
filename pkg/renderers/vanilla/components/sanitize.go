package components

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips everything but inline formatting and links from widget
// text.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(textSanitizer().Sanitize(trimmed))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "i", "strong", "em", "code", "tt", "br", "p", "ul", "ol", "li")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href", "target").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		textPolicy = policy
	})
	return textPolicy
}
