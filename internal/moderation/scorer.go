package moderation

// Risk scoring constants. These exact values are load-bearing: stored risk
// scores were computed with them, so changing them silently reclassifies
// historical data.
var severityWeight = map[Severity]int{
	SeverityHigh:   35,
	SeverityMedium: 20,
	SeverityLow:    10,
}

// categoryBonus is added on top of the severity weight for categories whose
// presence is especially strong evidence of off-platform intent. Categories
// not listed contribute no bonus.
var categoryBonus = map[Category]int{
	CategoryPhone:      15,
	CategoryEmail:      15,
	CategoryPaymentApp: 20,
	CategoryEvasion:    25,
}

// maxRiskScore is the saturation point of the risk scale.
const maxRiskScore = 100

// scoreFlags sums each flag's severity weight and category bonus and clamps
// the total to [0, maxRiskScore]. Flags are independent and additive; the
// score never decreases as flags are added.
func scoreFlags(flags []Flag) int {
	score := 0
	for _, f := range flags {
		score += severityWeight[f.Severity] + categoryBonus[f.Category]
	}
	if score > maxRiskScore {
		score = maxRiskScore
	}
	return score
}
