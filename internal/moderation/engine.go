// Package moderation implements the content-moderation engine for
// GadgetSwap's peer-to-peer messaging: a rule-based classifier that scans a
// message at send time and decides whether it attempts to move the
// transaction off-platform (phone numbers, emails, payment handles, social
// contacts, external links, evasive language, crypto addresses).
//
// The engine is deliberately deterministic and pattern-based rather than
// semantic: every verdict can be traced to a named pattern in the catalog.
package moderation

import "strings"

// blockThreshold is the risk score at or above which a message is rejected
// outright even without a single high-severity flag.
const blockThreshold = 70

// User-facing verdict messages. BlockedNotice accompanies a rejected
// message; FlaggedNotice accompanies a delivered-but-flagged one;
// InvalidNotice accompanies a message rejected before any scan.
const (
	BlockedNotice = "Your message could not be sent. Sharing contact details, payment handles, or external links is not allowed; transactions must stay on GadgetSwap."
	FlaggedNotice = "Your message was delivered but has been flagged for review."
	InvalidNotice = "Your message could not be sent: it is empty, too long, or not valid text."
)

// Engine applies the pattern catalog to messages. It holds only read-only
// data, so a single Engine may be shared across any number of concurrent
// callers without synchronization.
type Engine struct {
	catalog      []categoryPatterns
	allowHandles map[string]bool
}

// NewEngine returns an Engine with the default catalog and the default
// false-positive allowlist.
func NewEngine() *Engine {
	return NewEngineWithAllowlist(nil)
}

// NewEngineWithAllowlist returns an Engine whose social-media suppression
// list is extended with the given handles (with or without the leading @).
// Tests and deployments with extra official accounts use this.
func NewEngineWithAllowlist(handles []string) *Engine {
	allow := make(map[string]bool, len(defaultAllowedHandles)+len(handles))
	for h := range defaultAllowedHandles {
		allow[h] = true
	}
	for _, h := range handles {
		h = strings.ToLower(strings.TrimPrefix(h, "@"))
		if h != "" {
			allow[h] = true
		}
	}
	return &Engine{catalog: catalog, allowHandles: allow}
}

// Moderate scans one message and returns the verdict. It is a pure function
// of its input: no I/O, no shared mutable state, and identical input always
// yields an identical Result.
func (e *Engine) Moderate(text string) Result {
	flags := e.extract(text)
	score := scoreFlags(flags)

	res := Result{
		Flagged:   len(flags) > 0,
		Flags:     flags,
		RiskScore: score,
		Blocked:   score >= blockThreshold || hasHighSeverity(flags),
	}
	switch {
	case res.Blocked:
		res.Message = BlockedNotice
	case res.Flagged:
		res.Message = FlaggedNotice
	}
	return res
}

// InvalidMessage is the verdict for a message rejected by ValidateMessage
// before any scan. It blocks delivery but carries no flags: nothing in the
// text was detected, the message merely failed validation. This is the one
// verdict where Blocked does not imply Flagged.
func InvalidMessage() Result {
	return Result{Blocked: true, Message: InvalidNotice}
}

// ScanFailure is the verdict when the scanning pipeline fails outright.
// Matching failures fail safe: the message is delivered unflagged and the
// failure is surfaced through logs and metrics, never as a fabricated flag.
func ScanFailure() Result {
	return Result{}
}

func hasHighSeverity(flags []Flag) bool {
	for _, f := range flags {
		if f.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
