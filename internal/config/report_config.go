package config

import "time"

const (
	// Wizard validation
	MinWhatLength   = 10
	MaxEvidenceSize = 10 << 20 // per uploaded file

	// Call lifecycle (displayed status is simulated; see internal/call)
	CallConnectingDelay  = 2 * time.Second
	CallDurationTick     = 1 * time.Second
	SummaryGenerateDelay = 2 * time.Second

	// Call placement retry
	CallPlacementAttempts = 3
	CallPlacementBackoff  = 2 * time.Second

	// Volatile state lifetimes
	DraftTTL            = 24 * time.Hour
	HandoffTTL          = 1 * time.Hour
	WizardSessionMaxAge = 24 * time.Hour

	// Auth
	TokenLifetime = 72 * time.Hour
	TokenIssuer   = "fairvio-service"
)

// DefaultLanguage is used on first load and as the fallback for missing keys.
const DefaultLanguage = "en"

// SupportedLanguages lists the language codes the translation tables cover.
var SupportedLanguages = []string{"en", "es", "fr", "zh", "ko", "hi"}

// IsSupportedLanguage reports whether lang has a translation table.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
