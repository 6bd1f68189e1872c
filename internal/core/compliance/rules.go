package compliance

import (
	"regexp"
	"strings"
	"time"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

var (
	ssnPattern  = regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)
	datePattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
)

// rule is one entry of the battery. evaluate reports at most one finding.
type rule struct {
	field    string
	evaluate func(e *Engine, t Transcript) (domain.Finding, bool)
}

// battery lists the rules in emission order.
var battery = []rule{
	{field: "ssn", evaluate: checkSSN},
	{field: "physical_address", evaluate: checkAddress},
	{field: "occupation", evaluate: checkOccupation},
	{field: "signature", evaluate: checkSignature},
	{field: "signature_date", evaluate: checkSignatureDate},
	{field: "beneficiary_name", evaluate: checkBeneficiary},
	{field: "beneficiary_relationship", evaluate: checkRelationship},
	{field: "date_of_birth", evaluate: requireAny(setDateOfBirth, "date_of_birth", "dob_missing")},
	{field: "account_type", evaluate: requireAny(setAccountType, "account_type", "account_type_missing")},
	{field: "investment_objective", evaluate: requireAny(setInvestmentObjective, "investment_objective", "objective_missing")},
}

// Fields returns the rule fields in evaluation order.
func Fields() []string {
	out := make([]string, 0, len(battery))
	for _, r := range battery {
		out = append(out, r.field)
	}
	return out
}

func checkSSN(e *Engine, t Transcript) (domain.Finding, bool) {
	if ssnPattern.MatchString(t.Raw()) {
		return domain.Finding{}, false
	}
	return domain.NewFinding(domain.KindMissingField, "ssn", domain.SeverityHigh, e.catalog.message("ssn_missing")), true
}

func checkAddress(e *Engine, t Transcript) (domain.Finding, bool) {
	hasPOBox := t.containsAny(e.catalog.terms(setPOBox))
	hasStreet := t.containsAny(e.catalog.terms(setStreet))
	switch {
	case hasStreet:
		return domain.Finding{}, false
	case hasPOBox:
		return domain.NewFinding(domain.KindInvalidAddress, "physical_address", domain.SeverityHigh, e.catalog.message("po_box_only")), true
	default:
		return domain.NewFinding(domain.KindMissingField, "physical_address", domain.SeverityMedium, e.catalog.message("address_missing")), true
	}
}

func checkOccupation(e *Engine, t Transcript) (domain.Finding, bool) {
	if !t.containsAny(e.catalog.terms(setOccupationContext)) {
		return domain.Finding{}, false
	}
	needsDetail := make(map[string]struct{})
	for _, term := range e.catalog.terms(setVagueWithoutDetail) {
		needsDetail[term] = struct{}{}
	}
	for _, vague := range e.catalog.terms(setVagueOccupation) {
		context, ok := t.window(vague, e.catalog.Occupation.WindowChars)
		if !ok {
			continue
		}
		if _, strict := needsDetail[vague]; !strict {
			continue
		}
		if len(strings.Fields(context)) < e.catalog.Occupation.MinContextWords {
			return domain.NewFinding(domain.KindVagueOccupation, "occupation", domain.SeverityMedium, e.catalog.message("occupation_vague")), true
		}
	}
	return domain.Finding{}, false
}

func checkSignature(e *Engine, t Transcript) (domain.Finding, bool) {
	if t.containsAny(e.catalog.terms(setSignature)) {
		return domain.Finding{}, false
	}
	return domain.NewFinding(domain.KindMissingField, "signature", domain.SeverityHigh, e.catalog.message("signature_missing")), true
}

// checkSignatureDate reports a missing date, or the first date in the
// document that parses and is older than the staleness threshold.
// Unparseable dates are skipped.
func checkSignatureDate(e *Engine, t Transcript) (domain.Finding, bool) {
	if !t.containsAny(e.catalog.terms(setSignature)) {
		return domain.Finding{}, false
	}
	dates := datePattern.FindAllString(t.Raw(), -1)
	if len(dates) == 0 {
		return domain.NewFinding(domain.KindMissingDate, "signature_date", domain.SeverityHigh, e.catalog.message("signature_date_missing")), true
	}

	cutoff := e.now().Add(-time.Duration(e.staleAfterDays) * 24 * time.Hour)
	for _, raw := range dates {
		signed, ok := parseDate(raw, e.catalog.SignatureDate.Layouts, cutoff.Location())
		if !ok {
			continue
		}
		if signed.Before(cutoff) {
			return domain.NewFinding(domain.KindStaleDate, "signature_date", domain.SeverityMedium, e.catalog.staleMessage(raw, e.staleAfterDays)), true
		}
	}
	return domain.Finding{}, false
}

func parseDate(raw string, layouts []string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func checkBeneficiary(e *Engine, t Transcript) (domain.Finding, bool) {
	if t.containsAny(e.catalog.terms(setBeneficiary)) {
		return domain.Finding{}, false
	}
	return domain.NewFinding(domain.KindMissingField, "beneficiary_name", domain.SeverityHigh, e.catalog.message("beneficiary_missing")), true
}

func checkRelationship(e *Engine, t Transcript) (domain.Finding, bool) {
	if !t.containsAny(e.catalog.terms(setBeneficiary)) || t.containsAny(e.catalog.terms(setRelationship)) {
		return domain.Finding{}, false
	}
	return domain.NewFinding(domain.KindIncompleteBeneficiary, "beneficiary_relationship", domain.SeverityMedium, e.catalog.message("relationship_missing")), true
}

// requireAny builds a medium missing_field rule over one keyword set.
func requireAny(set, field, messageKey string) func(*Engine, Transcript) (domain.Finding, bool) {
	return func(e *Engine, t Transcript) (domain.Finding, bool) {
		if t.containsAny(e.catalog.terms(set)) {
			return domain.Finding{}, false
		}
		return domain.NewFinding(domain.KindMissingField, field, domain.SeverityMedium, e.catalog.message(messageKey)), true
	}
}
