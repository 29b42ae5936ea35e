package secgate

import "regexp"

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptTagRe    = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	jsSchemeRe     = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\son\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]*)`)
)

// Sanitize strips a denylist of active-content patterns from free text:
// <script> blocks, javascript: URIs and inline on* event handlers. It is a
// best-effort filter over plain text, not an HTML parser, and does not
// guarantee XSS-safe output. Rendering layers must still escape.
func Sanitize(text string) string {
	out := scriptBlockRe.ReplaceAllString(text, "")
	out = scriptTagRe.ReplaceAllString(out, "")
	out = jsSchemeRe.ReplaceAllString(out, "")
	out = eventHandlerRe.ReplaceAllString(out, "")
	return out
}
