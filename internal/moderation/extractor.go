package moderation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// contextRadius is how many bytes of surrounding original-case text are
// kept on each side of a match for human review.
const contextRadius = 20

// extract runs every catalog matcher against text and returns the surviving
// flags in detection order: category order, then pattern order, then
// left-to-right within the message.
//
// Matching is evaluated on a lowercased copy, but MatchedText and Context
// are sliced from the original text so reviewers see the user's casing.
// Within a category, a span claimed by an earlier pattern suppresses later
// overlapping matches, so one phone number does not become three phone
// flags just because several formats recognise it.
func (e *Engine) extract(text string) []Flag {
	lower := strings.ToLower(text)
	offs := lowerOffsets(text, lower)

	var flags []Flag
	for _, cp := range e.catalog {
		var claimed [][2]int
		for _, p := range cp.patterns {
			for _, sp := range p.find(lower) {
				start, end := sp[0], sp[1]
				if offs != nil {
					start, end = offs[clampIndex(start, len(lower))], offs[clampIndex(end, len(lower))]
				}
				start, end = clampSpan(text, start, end)
				start, end = trimSpan(text, start, end)
				if start >= end {
					continue
				}
				if overlapsClaimed(claimed, start, end) {
					continue
				}
				claimed = append(claimed, [2]int{start, end})

				matched := text[start:end]
				if e.suppressed(cp.category, matched) {
					continue
				}
				flags = append(flags, Flag{
					Category:    cp.category,
					Severity:    p.severity,
					MatchedText: matched,
					Context:     contextWindow(text, start, end),
				})
			}
		}
	}
	return flags
}

// suppressed reports whether a match is a documented false positive for its
// category. The filter is intentionally conservative: it only covers the
// platform's own identity and common non-handle @ tokens, it does not
// attempt general disambiguation.
func (e *Engine) suppressed(cat Category, matched string) bool {
	switch cat {
	case CategorySocialMedia:
		if strings.HasPrefix(matched, "@") {
			handle := strings.ToLower(strings.Trim(matched[1:], "."))
			return e.allowHandles[handle]
		}
	case CategoryExternalLink:
		return isPlatformURL(matched)
	}
	return false
}

// isPlatformURL reports whether a matched link points at the marketplace's
// own domain. Links to gadgetswap.com are navigation, not evasion.
func isPlatformURL(link string) bool {
	u := strings.ToLower(link)
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "www.")
	host, _, _ := strings.Cut(u, "/")
	host, _, _ = strings.Cut(host, ":")
	return host == platformDomain || strings.HasSuffix(host, "."+platformDomain)
}

// contextWindow returns up to contextRadius bytes of original text on each
// side of [start,end), clipped to the message bounds and aligned to rune
// boundaries so the window is always valid UTF-8.
func contextWindow(text string, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(text) {
		hi = len(text)
	}
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return text[lo:hi]
}

// lowerOffsets maps byte offsets in the lowercased copy back to offsets in
// the original text. ToLower maps runes one-for-one, but a few runes change
// byte width when lowered (the Kelvin sign, dotted capital I), and every
// offset after such a rune drifts. Returns nil in the common case where no
// width changed and spans can be used directly.
func lowerOffsets(text, lower string) []int {
	if len(text) == len(lower) {
		return nil
	}
	offs := make([]int, len(lower)+1)
	li := 0
	for ti, r := range text {
		n := utf8.RuneLen(unicode.ToLower(r))
		for i := 0; i < n; i++ {
			offs[li+i] = ti
		}
		li += n
	}
	offs[len(lower)] = len(text)
	return offs
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// clampSpan bounds a span to the text and aligns it to rune boundaries.
// Spans normally arrive valid; this is the safety net for a scan function
// that returns an out-of-range or mid-rune span.
func clampSpan(text string, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	for start < len(text) && start > 0 && !utf8.RuneStart(text[start]) {
		start++
	}
	for end > start && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}
	return start, end
}

// trimSpan strips leading and trailing whitespace from a matched span.
// Patterns anchored with (?:^|\s) capture the delimiter; the flag should
// carry only the token itself.
func trimSpan(text string, start, end int) (int, int) {
	for start < end && isSpaceByte(text[start]) {
		start++
	}
	for end > start && isSpaceByte(text[end-1]) {
		end--
	}
	return start, end
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func overlapsClaimed(claimed [][2]int, start, end int) bool {
	for _, c := range claimed {
		if start < c[1] && end > c[0] {
			return true
		}
	}
	return false
}
