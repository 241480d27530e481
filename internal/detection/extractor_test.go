package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIntelligence_AllArtifactTypes(t *testing.T) {
	msg := "Send to fraud@paytm or account 123456789012, call +91-9876543210, " +
		"details at https://evil.example/claim or email boss@scamcorp.in"

	intel := ExtractIntelligence(msg)

	assert.Contains(t, intel.BankAccounts, "123456789012")
	assert.Equal(t, []string{"fraud@paytm"}, intel.UPIIDs)
	assert.Equal(t, []string{"https://evil.example/claim"}, intel.PhishingURLs)
	assert.Contains(t, intel.PhoneNumbers, "919876543210")
	assert.Equal(t, []string{"boss@scamcorp.in"}, intel.Emails)
}

func TestExtractIntelligence_DeduplicatesRepeats(t *testing.T) {
	intel := ExtractIntelligence("pay fraud@ybl now, yes fraud@ybl, account 987654321 and again 987654321")

	assert.Equal(t, []string{"fraud@ybl"}, intel.UPIIDs)
	assert.Equal(t, []string{"987654321"}, intel.BankAccounts)
}

func TestExtractIntelligence_IsIdempotent(t *testing.T) {
	msg := "transfer to scammer@okicici, link http://phish.example, call 98765 43210"
	first := ExtractIntelligence(msg)
	second := ExtractIntelligence(msg)

	assert.Equal(t, first, second)
}

func TestExtractIntelligence_UPIHandleIsNotReportedAsEmail(t *testing.T) {
	intel := ExtractIntelligence("pay victim.refund@okicici today")

	assert.Equal(t, []string{"victim.refund@okicici"}, intel.UPIIDs)
	assert.Empty(t, intel.Emails)
}

func TestExtractIntelligence_UPIHandlesAreLowerCased(t *testing.T) {
	intel := ExtractIntelligence("send to Fraud@PayTM please")

	assert.Equal(t, []string{"fraud@paytm"}, intel.UPIIDs)
}

func TestExtractIntelligence_CountryCodeVariantsNormalizeToOneArtifact(t *testing.T) {
	intel := ExtractIntelligence("call +91-9876543210 or +91 9876543210 or +919876543210")

	assert.Equal(t, []string{"919876543210"}, intel.PhoneNumbers)
}

func TestExtractIntelligence_PhoneSeparatorsStripped(t *testing.T) {
	intel := ExtractIntelligence("call 98765 43210 or +91 9123456780")

	assert.Contains(t, intel.PhoneNumbers, "9876543210")
	assert.Contains(t, intel.PhoneNumbers, "919123456780")
}

func TestExtractIntelligence_EmailsLowerCasedAndDeduped(t *testing.T) {
	intel := ExtractIntelligence("write to Fraud@ScamCorp.IN or fraud@scamcorp.in")

	assert.Equal(t, []string{"fraud@scamcorp.in"}, intel.Emails)
}

func TestExtractIntelligence_URLStopsAtClosingBracket(t *testing.T) {
	intel := ExtractIntelligence(`click [https://evil.example/verify] now`)

	assert.Equal(t, []string{"https://evil.example/verify"}, intel.PhishingURLs)
}

func TestExtractIntelligence_EmptySetsForPlainText(t *testing.T) {
	intel := ExtractIntelligence("hello, how are you?")

	assert.Zero(t, intel.Total())
	assert.NotNil(t, intel.BankAccounts)
	assert.NotNil(t, intel.Emails)
}
