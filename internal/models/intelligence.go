package models

import "gorm.io/gorm"

// Intelligence artifact types
const (
	IntelBankAccount = "bank_account"
	IntelUPIID       = "upi_id"
	IntelPhishingURL = "phishing_url"
	IntelPhoneNumber = "phone_number"
	IntelEmail       = "email"
)

// IntelligenceItem is one extracted artifact. The composite unique index
// makes re-ingesting the same artifact a no-op (set union semantics).
type IntelligenceItem struct {
	gorm.Model
	ConversationID string `json:"conversation_id" gorm:"uniqueIndex:idx_intel_conv_type_value;not null"`
	Type           string `json:"intelligence_type" gorm:"uniqueIndex:idx_intel_conv_type_value;not null"`
	Value          string `json:"value" gorm:"uniqueIndex:idx_intel_conv_type_value;not null"`
}

// IntelligenceReport groups a conversation's artifacts by type in the wire
// format returned to API clients.
type IntelligenceReport struct {
	BankAccounts []string `json:"bank_accounts"`
	UPIIDs       []string `json:"upi_ids"`
	PhishingURLs []string `json:"phishing_urls"`
	PhoneNumbers []string `json:"phone_numbers"`
	Emails       []string `json:"emails"`
}

// NewIntelligenceReport returns a report with empty (non-nil) slices so the
// JSON encoding is always [] and never null.
func NewIntelligenceReport() *IntelligenceReport {
	return &IntelligenceReport{
		BankAccounts: []string{},
		UPIIDs:       []string{},
		PhishingURLs: []string{},
		PhoneNumbers: []string{},
		Emails:       []string{},
	}
}

// Add places a value into the bucket for the given artifact type.
func (r *IntelligenceReport) Add(intelType, value string) {
	switch intelType {
	case IntelBankAccount:
		r.BankAccounts = append(r.BankAccounts, value)
	case IntelUPIID:
		r.UPIIDs = append(r.UPIIDs, value)
	case IntelPhishingURL:
		r.PhishingURLs = append(r.PhishingURLs, value)
	case IntelPhoneNumber:
		r.PhoneNumbers = append(r.PhoneNumbers, value)
	case IntelEmail:
		r.Emails = append(r.Emails, value)
	}
}

// Total counts artifacts across all buckets.
func (r *IntelligenceReport) Total() int {
	return len(r.BankAccounts) + len(r.UPIIDs) + len(r.PhishingURLs) +
		len(r.PhoneNumbers) + len(r.Emails)
}
