package domain

import "strings"

type FindingKind string

const (
	KindMissingField          FindingKind = "missing_field"
	KindInvalidAddress        FindingKind = "invalid_address"
	KindVagueOccupation       FindingKind = "vague_occupation"
	KindMissingDate           FindingKind = "missing_date"
	KindStaleDate             FindingKind = "stale_date"
	KindIncompleteBeneficiary FindingKind = "incomplete_beneficiary"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Finding is one compliance issue detected in a document.
type Finding struct {
	Kind       FindingKind `json:"type"`
	Field      string      `json:"field"`
	Severity   Severity    `json:"severity"`
	Priority   string      `json:"priority"`
	Message    string      `json:"message"`
	Confidence Severity    `json:"confidence"`
}

func NewFinding(kind FindingKind, field string, severity Severity, message string) Finding {
	return Finding{
		Kind:       kind,
		Field:      field,
		Severity:   severity,
		Priority:   strings.ToUpper(string(severity)),
		Message:    message,
		Confidence: severity,
	}
}

type NIGOStatus string

const (
	NIGOStatusClean  NIGOStatus = "CLEAN"
	NIGOStatusReview NIGOStatus = "REVIEW"
	NIGOStatusNIGO   NIGOStatus = "NIGO"
)

// CheckResult aggregates the findings of one rule run with the checklist score.
type CheckResult struct {
	Errors          []Finding  `json:"errors"`
	ConfidenceScore float64    `json:"confidence_score"`
	TotalChecks     int        `json:"total_checks"`
	PassedChecks    int        `json:"passed_checks"`
	NIGOStatus      NIGOStatus `json:"nigo_status"`
}

func (r CheckResult) HasHighSeverity() bool {
	for _, f := range r.Errors {
		if f.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// DeriveNIGOStatus is NIGO when any finding is high severity, REVIEW when any
// finding exists and CLEAN otherwise.
func DeriveNIGOStatus(findings []Finding) NIGOStatus {
	if len(findings) == 0 {
		return NIGOStatusClean
	}
	for _, f := range findings {
		if f.Severity == SeverityHigh {
			return NIGOStatusNIGO
		}
	}
	return NIGOStatusReview
}

type ConfidenceTier string

const (
	TierGreen  ConfidenceTier = "GREEN"
	TierYellow ConfidenceTier = "YELLOW"
	TierRed    ConfidenceTier = "RED"
)

type ReviewMode string

const (
	ReviewAutomated ReviewMode = "automated"
	ReviewAssisted  ReviewMode = "assisted"
	ReviewManual    ReviewMode = "manual"
)
