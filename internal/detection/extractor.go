package detection

import (
	"regexp"
	"strings"

	"github.com/scamshield/honeypot-backend/internal/models"
)

// upiProviders is the closed allow-list of known payment-handle suffixes.
var upiProviders = []string{
	"upi", "ybl", "okhdfcbank", "okaxis", "okicici", "paytm",
	"apl", "ibl", "axisbank", "sbi", "hdfc", "icici", "kotak",
}

var (
	bankAccountPattern = regexp.MustCompile(`\b(\d{9,18})\b`)
	upiPattern         = regexp.MustCompile(`(?i)([a-zA-Z0-9._-]+@(?:` + strings.Join(upiProviders, "|") + `))\b`)
	urlPattern         = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	phonePattern       = regexp.MustCompile(`(?:\+91[-\s]?)?(?:\d{10}|\d{5}[-\s]\d{5})`)
	emailPattern       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneSeparators    = strings.NewReplacer("-", "", " ", "", "+", "")
)

// ExtractIntelligence pulls typed artifacts out of a message. Each bucket is
// deduplicated and normalized (UPI handles and emails lower-cased, phone
// separators stripped). Total over arbitrary text: no input can fail.
func ExtractIntelligence(message string) *models.IntelligenceReport {
	intel := models.NewIntelligenceReport()

	intel.BankAccounts = dedupe(bankAccountPattern.FindAllString(message, -1))

	var upis []string
	for _, u := range upiPattern.FindAllString(message, -1) {
		upis = append(upis, strings.ToLower(u))
	}
	intel.UPIIDs = dedupe(upis)

	intel.PhishingURLs = dedupe(urlPattern.FindAllString(message, -1))

	var phones []string
	for _, p := range phonePattern.FindAllString(message, -1) {
		phones = append(phones, phoneSeparators.Replace(p))
	}
	intel.PhoneNumbers = dedupe(phones)

	var emails []string
	for _, e := range emailPattern.FindAllString(message, -1) {
		e = strings.ToLower(e)
		// A handle already reported as a UPI id must not show up again as
		// a generic email.
		if isUPIHandle(e) {
			continue
		}
		emails = append(emails, e)
	}
	intel.Emails = dedupe(emails)

	return intel
}

func isUPIHandle(token string) bool {
	at := strings.LastIndex(token, "@")
	if at < 0 {
		return false
	}
	domain := token[at+1:]
	for _, provider := range upiProviders {
		if domain == provider {
			return true
		}
	}
	return false
}

// dedupe preserves first-seen order and always returns a non-nil slice.
func dedupe(values []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
