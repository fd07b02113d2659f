package types

// Horizon classifies how soon an advice item is actionable.
type Horizon string

const (
	HorizonImmediate Horizon = "immediate"
	HorizonShortTerm Horizon = "short_term"
	HorizonLongTerm  Horizon = "long_term"
)

// Severity is the ordinal severity of a single advice item.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank returns the ordinal position of the severity for comparisons.
// high > medium > low. Unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// AdviceKind distinguishes hard warnings from softer advisories.
type AdviceKind string

const (
	KindWarning  AdviceKind = "warning"
	KindAdvisory AdviceKind = "advisory"
)

// SeverityTier is the coarse rollup used to gate whether a notification is
// sent at all. It is distinct from the per-item Severity and from
// AdviceSet.OverallSeverity.
type SeverityTier string

const (
	TierLow      SeverityTier = "low"
	TierMedium   SeverityTier = "medium"
	TierHigh     SeverityTier = "high"
	TierCritical SeverityTier = "critical"
)

// Decision is the terminal outcome of processing a single recipient in a
// dispatch run.
type Decision string

const (
	DecisionSent               Decision = "sent"
	DecisionSkippedLowSeverity Decision = "skipped_low_severity"
	DecisionSkippedNoChannel   Decision = "skipped_no_channel"
	DecisionFailed             Decision = "failed"
)

// FailureReason categorizes a failed dispatch outcome.
type FailureReason string

const (
	FailureProviderError FailureReason = "provider-error"
	FailureChannelError  FailureReason = "channel-error"
)

// LanguageCode identifies a supported alert language. The set is closed;
// unknown codes fall back to English at composition time.
type LanguageCode string

const (
	LangEnglish LanguageCode = "en"
	LangHindi   LanguageCode = "hi"
	LangTelugu  LanguageCode = "te"
)

// SupportedLanguages lists every language a composed alert can be rendered
// in. Catalog validation iterates this set at startup.
func SupportedLanguages() []LanguageCode {
	return []LanguageCode{LangEnglish, LangHindi, LangTelugu}
}

// Supported reports whether the code is a member of the closed language set.
func (l LanguageCode) Supported() bool {
	for _, s := range SupportedLanguages() {
		if l == s {
			return true
		}
	}
	return false
}
