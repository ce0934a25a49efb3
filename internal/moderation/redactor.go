package moderation

import "regexp"

// Placeholder tokens inserted in place of identity-leaking spans.
const (
	PhonePlaceholder = "[PHONE REDACTED]"
	EmailPlaceholder = "[EMAIL REDACTED]"
)

// redactions are applied in order against the original-case text. Emails go
// first so a digit-heavy local part is not half-eaten by a phone pattern.
var redactions = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`(?i)` + emailExpr), EmailPlaceholder},
	{regexp.MustCompile(phoneParensExpr), PhonePlaceholder},
	{regexp.MustCompile(phoneSeparatedExpr), PhonePlaceholder},
	{regexp.MustCompile(phoneBareExpr), PhonePlaceholder},
}

// Redact returns a copy of text safe for administrative display: phone
// numbers and email addresses are replaced with fixed placeholders. Social
// handles, links, and payment-app names remain visible since reviewers need
// them and they are not direct PII. This is a presentation helper, not a
// security boundary, and is independent of the blocking decision.
func Redact(text string) string {
	for _, r := range redactions {
		text = r.re.ReplaceAllString(text, r.placeholder)
	}
	return text
}
