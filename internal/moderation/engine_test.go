package moderation

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// TestModerate_Clean verifies the fast path: no matches anywhere yields an
// all-zero result with no message.
func TestModerate_Clean(t *testing.T) {
	e := NewEngine()

	tests := []string{
		"Is this still available?",
		"Would you take 40 for it?",
		"Great, see you Saturday at the pickup spot",
		"Does it come with the original box?",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			res := e.Moderate(input)
			if res.Flagged {
				t.Errorf("Moderate(%q).Flagged = true, want false (%+v)", input, res.Flags)
			}
			if res.Blocked {
				t.Errorf("Moderate(%q).Blocked = true, want false", input)
			}
			if res.RiskScore != 0 {
				t.Errorf("Moderate(%q).RiskScore = %d, want 0", input, res.RiskScore)
			}
			if res.Message != "" {
				t.Errorf("Moderate(%q).Message = %q, want empty", input, res.Message)
			}
		})
	}
}

// TestModerate_PhoneBlocks verifies a single high-severity flag blocks
// regardless of the overall score.
func TestModerate_PhoneBlocks(t *testing.T) {
	e := NewEngine()

	res := e.Moderate("Call me at 555-123-4567")
	if len(res.Flags) != 1 {
		t.Fatalf("Flags = %+v, want exactly one phone flag", res.Flags)
	}
	if res.Flags[0].Category != CategoryPhone || res.Flags[0].Severity != SeverityHigh {
		t.Errorf("flag = %s/%s, want phone/high", res.Flags[0].Category, res.Flags[0].Severity)
	}
	if res.RiskScore != 50 {
		t.Errorf("RiskScore = %d, want 50", res.RiskScore)
	}
	if !res.Blocked {
		t.Error("Blocked = false, want true (high severity blocks below the score threshold)")
	}
	if !res.Flagged {
		t.Error("Flagged = false, want true")
	}
	if res.Message != BlockedNotice {
		t.Errorf("Message = %q, want BlockedNotice", res.Message)
	}
}

// TestModerate_FlaggedNotBlocked verifies a single medium flag is delivered
// with a review notice.
func TestModerate_FlaggedNotBlocked(t *testing.T) {
	e := NewEngine()

	res := e.Moderate("Check out my website www.example.com")
	if len(res.Flags) != 1 {
		t.Fatalf("Flags = %+v, want exactly one external_link flag", res.Flags)
	}
	if res.Flags[0].Category != CategoryExternalLink {
		t.Errorf("flag category = %q, want %q", res.Flags[0].Category, CategoryExternalLink)
	}
	if res.RiskScore != 20 {
		t.Errorf("RiskScore = %d, want 20", res.RiskScore)
	}
	if res.Blocked {
		t.Error("Blocked = true, want false")
	}
	if !res.Flagged {
		t.Error("Flagged = false, want true")
	}
	if res.Message != FlaggedNotice {
		t.Errorf("Message = %q, want FlaggedNotice", res.Message)
	}
}

// TestModerate_MediumAccumulation verifies several medium flags can cross
// the block threshold with no high-severity flag present.
func TestModerate_MediumAccumulation(t *testing.T) {
	e := NewEngine()

	res := e.Moderate("www.shopone.com www.shoptwo.com instagram telegram")
	if len(res.Flags) != 4 {
		t.Fatalf("Flags = %+v, want 4 medium flags", res.Flags)
	}
	for _, f := range res.Flags {
		if f.Severity != SeverityMedium {
			t.Errorf("flag %s severity = %q, want medium", f.Category, f.Severity)
		}
	}
	if res.RiskScore != 80 {
		t.Errorf("RiskScore = %d, want 80", res.RiskScore)
	}
	if !res.Blocked {
		t.Error("Blocked = false, want true (4 x 20 crosses the threshold)")
	}
}

// TestModerate_PaymentScenario covers the venmo + paypal-jargon + handle mix.
func TestModerate_PaymentScenario(t *testing.T) {
	e := NewEngine()

	res := e.Moderate("Pay via Venmo @myhandle goods and services")
	var payment, social int
	for _, f := range res.Flags {
		switch f.Category {
		case CategoryPaymentApp:
			payment++
			if f.Severity != SeverityHigh {
				t.Errorf("payment flag severity = %q, want high", f.Severity)
			}
		case CategorySocialMedia:
			social++
		default:
			t.Errorf("unexpected flag category %q", f.Category)
		}
	}
	if payment != 2 || social != 1 {
		t.Fatalf("got %d payment / %d social flags, want 2 / 1 (%+v)", payment, social, res.Flags)
	}
	if !res.Blocked {
		t.Error("Blocked = false, want true")
	}
	if res.RiskScore < 55 {
		t.Errorf("RiskScore = %d, want at least 55", res.RiskScore)
	}
}

// TestModerate_PlatformHandleSuppressed verifies the marketplace's own
// handle never counts as contact sharing.
func TestModerate_PlatformHandleSuppressed(t *testing.T) {
	e := NewEngine()

	res := e.Moderate("following @gadgetswap")
	if res.Flagged {
		t.Errorf("Flagged = true, want false (%+v)", res.Flags)
	}
	if res.RiskScore != 0 {
		t.Errorf("RiskScore = %d, want 0", res.RiskScore)
	}
}

// TestModerate_Invariants checks the structural invariants across a spread
// of inputs: flagged iff flags present, score bounds, blocked rule, message
// presence.
func TestModerate_Invariants(t *testing.T) {
	e := NewEngine()

	inputs := []string{
		"Is this still available?",
		"Call me at 555-123-4567",
		"john@example.com",
		"zelle me",
		"dm me on instagram @seller",
		"www.example.com and www.other.com and telegram",
		"let's meet up cash only and avoid the fees",
		"0x1234567890abcdef1234567890abcdef12345678",
		strings.Repeat("555-123-4567 ", 10),
	}

	for _, input := range inputs {
		res := e.Moderate(input)

		if res.Flagged != (len(res.Flags) > 0) {
			t.Errorf("Moderate(%q): Flagged = %v with %d flags", input, res.Flagged, len(res.Flags))
		}
		if res.RiskScore < 0 || res.RiskScore > 100 {
			t.Errorf("Moderate(%q): RiskScore = %d out of [0,100]", input, res.RiskScore)
		}
		wantBlocked := res.RiskScore >= 70 || hasHighSeverity(res.Flags)
		if res.Blocked != wantBlocked {
			t.Errorf("Moderate(%q): Blocked = %v, want %v (score=%d)", input, res.Blocked, wantBlocked, res.RiskScore)
		}
		switch {
		case res.Blocked && res.Message != BlockedNotice:
			t.Errorf("Moderate(%q): blocked but Message = %q", input, res.Message)
		case !res.Blocked && res.Flagged && res.Message != FlaggedNotice:
			t.Errorf("Moderate(%q): flagged but Message = %q", input, res.Message)
		case !res.Flagged && res.Message != "":
			t.Errorf("Moderate(%q): clean but Message = %q", input, res.Message)
		}
	}
}

// TestModerate_Idempotent verifies the engine is a pure function: two runs
// on identical input produce identical results.
func TestModerate_Idempotent(t *testing.T) {
	e := NewEngine()

	inputs := []string{
		"Is this still available?",
		"Call me at 555-123-4567 or john@example.com",
		"venmo @seller goods and services www.example.com",
	}
	for _, input := range inputs {
		a := e.Moderate(input)
		b := e.Moderate(input)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Moderate(%q) not idempotent:\n first = %+v\nsecond = %+v", input, a, b)
		}
	}
}

// TestSynthesizedVerdicts covers the two verdicts produced outside the
// engine. Both must keep Flagged consistent with the flag list so
// downstream consumers can rely on it regardless of where a result came
// from.
func TestSynthesizedVerdicts(t *testing.T) {
	t.Run("invalid message", func(t *testing.T) {
		res := InvalidMessage()
		if !res.Blocked {
			t.Error("InvalidMessage().Blocked = false, want true")
		}
		if res.Flagged || len(res.Flags) != 0 {
			t.Errorf("InvalidMessage() carries flags: %+v", res)
		}
		if res.RiskScore != 0 {
			t.Errorf("InvalidMessage().RiskScore = %d, want 0", res.RiskScore)
		}
		if res.Message != InvalidNotice {
			t.Errorf("InvalidMessage().Message = %q, want %q", res.Message, InvalidNotice)
		}
	})

	t.Run("scan failure fails safe", func(t *testing.T) {
		res := ScanFailure()
		if res.Flagged || res.Blocked || len(res.Flags) != 0 || res.RiskScore != 0 {
			t.Errorf("ScanFailure() = %+v, want a clean verdict", res)
		}
		if res.Message != "" {
			t.Errorf("ScanFailure().Message = %q, want empty", res.Message)
		}
	})
}

// TestModerate_ConcurrentUse verifies a shared Engine is safe under
// parallel callers (run with -race).
func TestModerate_ConcurrentUse(t *testing.T) {
	e := NewEngine()
	inputs := []string{
		"Is this still available?",
		"Call me at 555-123-4567",
		"dm me on instagram",
		"www.example.com",
	}

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				input := inputs[(n+j)%len(inputs)]
				res := e.Moderate(input)
				if res.Flagged != (len(res.Flags) > 0) {
					t.Errorf("Moderate(%q): inconsistent result %+v", input, res)
					return
				}
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for concurrent callers")
		}
	}
}

// BenchmarkModerate measures the clean-path cost, which is the common case.
func BenchmarkModerate(b *testing.B) {
	e := NewEngine()
	msg := "Hi, is the laptop still available? Happy to pick it up this weekend if the price works."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Moderate(msg)
	}
}

// BenchmarkModerate_Blocked measures the cost when flags are produced.
func BenchmarkModerate_Blocked(b *testing.B) {
	e := NewEngine()
	msg := "Call me at 555-123-4567 or venmo me, let's avoid the fees"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Moderate(msg)
	}
}

// BenchmarkModerate_LongMessage measures scan cost growth on longer input.
func BenchmarkModerate_LongMessage(b *testing.B) {
	e := NewEngine()
	msg := strings.Repeat("this is a perfectly ordinary marketplace message about the item condition. ", 25)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Moderate(msg)
	}
}
