package detection

import (
	"fmt"
	"regexp"
	"strings"
)

// ScamAnalysis is the classifier verdict for one message.
type ScamAnalysis struct {
	IsScam             bool     `json:"is_scam"`
	Confidence         float64  `json:"confidence"`
	DetectedIndicators []string `json:"detected_indicators"`
	Category           string   `json:"category"`
}

// indicatorCategory pairs a category name with its literal phrases. Kept as
// an ordered slice (not a map) so ties between categories resolve to the
// first one listed.
type indicatorCategory struct {
	name    string
	phrases []string
}

// scamIndicators is fixed, read-only data; safe for concurrent use.
var scamIndicators = []indicatorCategory{
	{"urgentPayment", []string{
		"urgent", "immediately", "right now", "asap", "hurry", "quickly",
		"limited time", "expires today", "last chance", "act fast",
	}},
	{"lotteryPrize", []string{
		"congratulations", "winner", "won", "lottery", "prize", "jackpot",
		"selected", "lucky", "reward", "claim your",
	}},
	{"kycVerification", []string{
		"kyc", "verify", "verification", "update your account", "confirm identity",
		"account suspended", "account blocked", "reactivate", "security update",
	}},
	{"financialRequest", []string{
		"transfer", "bank account", "upi", "gpay", "phonepe", "paytm",
		"send money", "payment", "deposit", "wire transfer", "bitcoin", "crypto",
	}},
	{"impersonation", []string{
		"government", "tax department", "police", "customs", "bank manager",
		"rbi", "sbi", "hdfc", "icici", "income tax", "cbi", "ed",
	}},
	{"threatLanguage", []string{
		"arrest", "legal action", "case filed", "warrant", "fine", "penalty",
		"jail", "court", "summon", "investigation", "freeze account",
	}},
}

var (
	suspiciousURLPattern = regexp.MustCompile(`(?i)https?://\S+|bit\.ly|tinyurl|short\.link`)
	upiLikePattern       = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z]+`)
	accountDigitPattern  = regexp.MustCompile(`\b\d{9,18}\b`)
)

// AnalyzeForScam scores a message against the indicator tables plus
// structural signals (URLs, UPI-shaped handles, long digit runs). Stateless
// and total: any input yields a verdict, never an error.
func AnalyzeForScam(message string) ScamAnalysis {
	lower := strings.ToLower(message)
	var detected []string
	totalScore := 0

	topCategory := "unknown"
	topScore := 0
	for _, cat := range scamIndicators {
		categoryScore := 0
		for _, phrase := range cat.phrases {
			if strings.Contains(lower, phrase) {
				detected = append(detected, fmt.Sprintf("%s: %s", cat.name, phrase))
				categoryScore++
				totalScore++
			}
		}
		if categoryScore > topScore {
			topScore = categoryScore
			topCategory = cat.name
		}
	}

	if urls := suspiciousURLPattern.FindAllString(message, -1); len(urls) > 0 {
		detected = append(detected, fmt.Sprintf("suspiciousUrls: %d URLs found", len(urls)))
		totalScore += len(urls) * 2
	}

	// A single UPI-shaped handle that isn't an obvious mainstream email
	// domain earns a flat bonus once.
	for _, token := range upiLikePattern.FindAllString(message, -1) {
		if !strings.Contains(token, ".com") && !strings.Contains(token, ".org") {
			detected = append(detected, "upiId: potential UPI ID found")
			totalScore += 3
			break
		}
	}

	if accounts := accountDigitPattern.FindAllString(message, -1); len(accounts) > 0 {
		detected = append(detected, fmt.Sprintf("bankAccount: %d potential account numbers", len(accounts)))
		totalScore += len(accounts) * 2
	}

	confidence := float64(totalScore) / 10
	if confidence > 1 {
		confidence = 1
	}

	return ScamAnalysis{
		// Deliberate OR: one strong structural signal or two weak keyword
		// hits can each trigger the verdict on their own.
		IsScam:             confidence > 0.2 || len(detected) >= 2,
		Confidence:         confidence,
		DetectedIndicators: detected,
		Category:           topCategory,
	}
}
