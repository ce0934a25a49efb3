package moderation

import "testing"

// TestScoreFlags_Contributions verifies the per-flag base weight plus
// category bonus for every category.
func TestScoreFlags_Contributions(t *testing.T) {
	tests := []struct {
		name string
		flag Flag
		want int
	}{
		{"phone high", Flag{Category: CategoryPhone, Severity: SeverityHigh}, 50},
		{"email high", Flag{Category: CategoryEmail, Severity: SeverityHigh}, 50},
		{"payment high", Flag{Category: CategoryPaymentApp, Severity: SeverityHigh}, 55},
		{"evasion high", Flag{Category: CategoryEvasion, Severity: SeverityHigh}, 60},
		{"social medium", Flag{Category: CategorySocialMedia, Severity: SeverityMedium}, 20},
		{"link medium", Flag{Category: CategoryExternalLink, Severity: SeverityMedium}, 20},
		{"crypto medium", Flag{Category: CategoryCrypto, Severity: SeverityMedium}, 20},
		{"low no bonus", Flag{Category: CategorySocialMedia, Severity: SeverityLow}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreFlags([]Flag{tt.flag}); got != tt.want {
				t.Errorf("scoreFlags(%s/%s) = %d, want %d", tt.flag.Category, tt.flag.Severity, got, tt.want)
			}
		})
	}
}

// TestScoreFlags_Additive verifies flags sum independently without
// per-category deduplication.
func TestScoreFlags_Additive(t *testing.T) {
	flags := []Flag{
		{Category: CategorySocialMedia, Severity: SeverityMedium}, // 20
		{Category: CategorySocialMedia, Severity: SeverityMedium}, // 20
		{Category: CategoryExternalLink, Severity: SeverityMedium}, // 20
	}
	if got := scoreFlags(flags); got != 60 {
		t.Errorf("scoreFlags() = %d, want 60", got)
	}
}

// TestScoreFlags_Empty verifies the clean path scores zero.
func TestScoreFlags_Empty(t *testing.T) {
	if got := scoreFlags(nil); got != 0 {
		t.Errorf("scoreFlags(nil) = %d, want 0", got)
	}
}

// TestScoreFlags_ClampedAt100 verifies saturation.
func TestScoreFlags_ClampedAt100(t *testing.T) {
	var flags []Flag
	for i := 0; i < 6; i++ {
		flags = append(flags, Flag{Category: CategoryEvasion, Severity: SeverityHigh}) // 60 each
	}
	if got := scoreFlags(flags); got != 100 {
		t.Errorf("scoreFlags() = %d, want 100", got)
	}
}

// TestScoreFlags_Monotonic verifies adding a flag never decreases the score.
func TestScoreFlags_Monotonic(t *testing.T) {
	all := []Flag{
		{Category: CategoryCrypto, Severity: SeverityMedium},
		{Category: CategoryPhone, Severity: SeverityHigh},
		{Category: CategorySocialMedia, Severity: SeverityLow},
		{Category: CategoryEvasion, Severity: SeverityHigh},
		{Category: CategoryPaymentApp, Severity: SeverityHigh},
		{Category: CategoryExternalLink, Severity: SeverityMedium},
	}

	prev := 0
	for i := range all {
		got := scoreFlags(all[:i+1])
		if got < prev {
			t.Errorf("scoreFlags(first %d) = %d, less than %d with fewer flags", i+1, got, prev)
		}
		if got > maxRiskScore {
			t.Errorf("scoreFlags(first %d) = %d, exceeds %d", i+1, got, maxRiskScore)
		}
		prev = got
	}
}
