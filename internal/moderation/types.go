package moderation

// Category identifies the kind of off-platform evasion signal a pattern
// detects. The set is fixed; it is never extended at runtime.
type Category string

const (
	CategoryPhone        Category = "phone"
	CategoryEmail        Category = "email"
	CategoryPaymentApp   Category = "payment_app"
	CategorySocialMedia  Category = "social_media"
	CategoryExternalLink Category = "external_link"
	CategoryEvasion      Category = "evasion"
	CategoryCrypto       Category = "crypto"
)

// Severity is the strength of evidence a matched pattern provides. It is
// assigned per pattern at definition time, never computed.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Flag is one detected pattern occurrence. MatchedText is the exact
// substring that triggered the pattern and Context is a window of
// surrounding original-case text for human review. Flags are immutable
// once created.
type Flag struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	MatchedText string   `json:"matched_text"`
	Context     string   `json:"context"`
}

// Result is the engine's verdict for a single message.
//
// Invariants: RiskScore is clamped to [0,100]; Flagged is true exactly
// when Flags is non-empty; Message is non-empty exactly when Flagged or
// Blocked is true. Engine verdicts additionally guarantee Blocked is true
// exactly when RiskScore >= 70 or at least one flag is high severity;
// InvalidMessage blocks without flags because no scan ran.
type Result struct {
	Flagged   bool   `json:"flagged"`
	Flags     []Flag `json:"flags,omitempty"`
	RiskScore int    `json:"risk_score"`
	Blocked   bool   `json:"blocked"`
	Message   string `json:"message,omitempty"`
}

// CheckRequest is published to moderation.check by the messaging API when a
// message needs content review before delivery.
type CheckRequest struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text"`
	Ts        int64  `json:"ts"`
}

// CheckResult is published back to the messaging API with the verdict.
type CheckResult struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Result    Result `json:"result"`
}
