package moderation

import "regexp"

// Platform identity, used by false-positive suppression: the marketplace's
// own handle and domain must never count as evasion signals.
const (
	platformHandle = "gadgetswap"
	platformDomain = "gadgetswap.com"
)

// Pattern expressions shared between the catalog and the redactor. All
// matching runs against a lowercased copy of the message, so character
// classes are written in lowercase.
const (
	phoneSeparatedExpr = `\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`
	phoneParensExpr    = `\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}`
	phoneBareExpr      = `\b\d{10,11}\b`
	emailExpr          = `\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`
)

// pattern is one matcher definition in the catalog: a compiled regexp, or a
// linear-scan function for checks RE2 cannot express. Exactly one of re and
// scan is set.
type pattern struct {
	name     string
	severity Severity
	re       *regexp.Regexp
	scan     func(string) [][]int
}

// find returns the byte spans of every match in text. A matcher failure on
// malformed input must read as "no match", never as a crashed message send,
// so panics are swallowed here.
func (p pattern) find(text string) (spans [][]int) {
	defer func() {
		if recover() != nil {
			spans = nil
		}
	}()
	if p.scan != nil {
		return p.scan(text)
	}
	return p.re.FindAllStringIndex(text, -1)
}

type categoryPatterns struct {
	category Category
	patterns []pattern
}

// catalog is the full policy surface of the engine: per category, the
// ordered matchers and the severity each match carries. Flags are emitted in
// catalog order, then pattern order, then left-to-right within the message.
// The table is read-only after init and shared by all Engine instances.
var catalog = []categoryPatterns{
	{CategoryPhone, []pattern{
		{name: "separated", severity: SeverityHigh,
			re: regexp.MustCompile(phoneSeparatedExpr)},
		{name: "parenthesized", severity: SeverityHigh,
			re: regexp.MustCompile(phoneParensExpr)},
		{name: "bare_digits", severity: SeverityHigh,
			re: regexp.MustCompile(phoneBareExpr)},
		{name: "spelled_out", severity: SeverityHigh,
			scan: spelledDigitSpans},
		{name: "call_me", severity: SeverityHigh,
			re: regexp.MustCompile(`\b(?:call|text)\s+me\s+(?:at|on)\b[^a-z0-9]{0,8}\d`)},
	}},
	{CategoryEmail, []pattern{
		{name: "address", severity: SeverityHigh,
			re: regexp.MustCompile(emailExpr)},
		{name: "obfuscated", severity: SeverityHigh,
			re: regexp.MustCompile(`\b[a-z0-9._%+\-]+\s*(?:\(at\)|\[at\]|\bat\b)\s*[a-z0-9\-]+\s*(?:\(dot\)|\[dot\]|\bdot\b)\s*[a-z]{2,}\b`)},
		{name: "email_me", severity: SeverityHigh,
			re: regexp.MustCompile(`\be-?mail\s+me\b`)},
	}},
	{CategoryPaymentApp, []pattern{
		{name: "platform", severity: SeverityHigh,
			re: regexp.MustCompile(`\b(?:venmo|paypal|cash\s?app|zelle|apple\s?pay|google\s?pay|wise|western\s+union|moneygram)\b`)},
		{name: "cashtag", severity: SeverityHigh,
			re: regexp.MustCompile(`\$[a-z][a-z0-9_]{2,}`)},
		{name: "transfer_via", severity: SeverityHigh,
			re: regexp.MustCompile(`\b(?:pay|send|transfer)(?:\s+[a-z]+){0,2}\s+(?:via|through|thru|using|with|on)\s+[a-z]`)},
		{name: "paypal_terms", severity: SeverityHigh,
			re: regexp.MustCompile(`\b(?:goods\s+and\s+services|friends\s+and\s+family|g&s|f&f|gns|fnf)\b`)},
		{name: "bank_gift", severity: SeverityHigh,
			re: regexp.MustCompile(`\b(?:bank\s+transfer|wire\s+(?:transfer|money)|direct\s+deposit|gift\s?cards?|prepaid\s+cards?)\b`)},
	}},
	{CategorySocialMedia, []pattern{
		{name: "platform", severity: SeverityMedium,
			re: regexp.MustCompile(`\b(?:instagram|insta|facebook|twitter|tiktok|snapchat|telegram|whatsapp|discord|signal)\b`)},
		{name: "dm_me", severity: SeverityMedium,
			re: regexp.MustCompile(`\b(?:dm|message|add|follow|find)\s+me(?:\s+(?:on|at)\s+\S+)?\b`)},
		{name: "handle", severity: SeverityMedium,
			re: regexp.MustCompile(`(?:^|\s)@[a-z0-9_.]{2,}`)},
	}},
	{CategoryExternalLink, []pattern{
		{name: "url", severity: SeverityMedium,
			re: regexp.MustCompile(`\bhttps?://\S+`)},
		{name: "www", severity: SeverityMedium,
			re: regexp.MustCompile(`\bwww\.\S+`)},
		{name: "visit_site", severity: SeverityMedium,
			re: regexp.MustCompile(`\b(?:check\s+out|visit|go\s+to)\s+(?:my|our|the|this)\s+(?:web\s?site|site|page|shop|store)(?:\s+at)?\s+\S+`)},
	}},
	{CategoryEvasion, []pattern{
		{name: "off_platform", severity: SeverityHigh,
			re: regexp.MustCompile(`\boff[\s-]?platform\b`)},
		{name: "outside", severity: SeverityHigh,
			re: regexp.MustCompile(`\boutside\s+(?:of\s+)?(?:the\s+)?(?:app|site|platform|` + platformHandle + `)\b`)},
		{name: "avoid_fees", severity: SeverityHigh,
			re: regexp.MustCompile(`\b(?:avoid|skip|dodge)\s+(?:the\s+|paying\s+)?fees?\b`)},
		{name: "cash_meetup", severity: SeverityHigh,
			re: regexp.MustCompile(`\bmeet\s?up\b[^.!?]{0,24}\bcash(?:\s+only)?\b`)},
		{name: "cant_use_site", severity: SeverityHigh,
			re: regexp.MustCompile(`\b(?:can['’]?t|cannot|won['’]?t)\s+use\s+this\s+(?:site|app|platform)\b`)},
		{name: "deal_direct", severity: SeverityHigh,
			re: regexp.MustCompile(`\bdeal\s+direct(?:ly)?\b`)},
	}},
	{CategoryCrypto, []pattern{
		{name: "currency", severity: SeverityMedium,
			re: regexp.MustCompile(`\b(?:bitcoin|btc|ethereum|eth|litecoin|dogecoin|solana|monero|usdt|usdc|tether|cryptocurrency|crypto)\b`)},
		{name: "eth_address", severity: SeverityMedium,
			re: regexp.MustCompile(`\b0x[a-f0-9]{40}\b`)},
		// Base58 is case-sensitive but matching runs on folded text, so the
		// class below is the folded alphabet. Slightly loose is fine here:
		// a 25+ character alphanumeric blob after "1"/"3" is not prose.
		{name: "btc_address", severity: SeverityMedium,
			re: regexp.MustCompile(`\b[13][a-z0-9]{25,34}\b`)},
	}},
}

// defaultAllowedHandles are @ tokens suppressed from social_media flagging:
// the platform's own handle plus common words users write after a bare "@"
// that are not contact handles.
var defaultAllowedHandles = map[string]bool{
	platformHandle: true,
	"all":          true,
	"everyone":     true,
	"here":         true,
	"home":         true,
	"me":           true,
	"you":          true,
}

// digitWords are the spoken-digit tokens recognised by spelledDigitSpans.
var digitWords = map[string]bool{
	"zero": true, "oh": true, "one": true, "two": true, "three": true,
	"four": true, "five": true, "six": true, "seven": true, "eight": true,
	"nine": true,
}

// spelledDigitMin is the run length at which consecutive spoken digits are
// treated as an encoded phone number ("five five five one two three...").
const spelledDigitMin = 10

// spelledDigitSpans finds runs of spelledDigitMin or more consecutive
// digit words. Go's regexp package (RE2) cannot count word repetitions
// without backreferences, so this is a plain token scan.
func spelledDigitSpans(text string) [][]int {
	var spans [][]int
	runStart, runEnd, count := 0, 0, 0

	flush := func() {
		if count >= spelledDigitMin {
			spans = append(spans, []int{runStart, runEnd})
		}
		count = 0
	}

	i := 0
	for i < len(text) {
		if !isTokenByte(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isTokenByte(text[j]) {
			j++
		}
		if digitWords[text[i:j]] {
			if count == 0 {
				runStart = i
			}
			runEnd = j
			count++
		} else {
			flush()
		}
		i = j
	}
	flush()
	return spans
}

func isTokenByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
