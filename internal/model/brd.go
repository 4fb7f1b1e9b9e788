package model

// BRD field names produced by the generation backends. The document is kept
// as a map rather than a struct because the edit path accepts caller-supplied
// JSON and the backends occasionally add or omit fields; derived fields are
// computed defensively over whatever shape arrived.
const (
	FieldExecutiveSummary          = "executive_summary"
	FieldBusinessObjectives        = "business_objectives"
	FieldStakeholders              = "stakeholders"
	FieldFunctionalRequirements    = "functional_requirements"
	FieldNonFunctionalRequirements = "non_functional_requirements"
	FieldAssumptions               = "assumptions"
	FieldTimeline                  = "timeline"
	FieldConflicts                 = "conflicts"

	FieldFunctionalRequirementsCount = "functional_requirements_count"
	FieldStakeholderCount            = "stakeholder_count"
	FieldConfidence                  = "confidence"
)

// Confidence tiers assigned from the functional requirement count.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Document is a Business Requirements Document as returned by a backend,
// parsed from JSON.
type Document map[string]any

// ListLen returns the length of a list-valued field. A missing field or a
// non-list value counts as an empty list.
func (d Document) ListLen(field string) int {
	switch v := d[field].(type) {
	case []any:
		return len(v)
	case []string:
		return len(v)
	default:
		return 0
	}
}

// ConfidenceTier maps a functional requirement count to a confidence label.
func ConfidenceTier(functionalCount int) string {
	switch {
	case functionalCount >= 5:
		return ConfidenceHigh
	case functionalCount >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Finalize computes the derived fields on a parsed document: the functional
// requirement and stakeholder counts plus the confidence tier. Idempotent.
func (d Document) Finalize() {
	frCount := d.ListLen(FieldFunctionalRequirements)
	d[FieldFunctionalRequirementsCount] = frCount
	d[FieldStakeholderCount] = d.ListLen(FieldStakeholders)
	d[FieldConfidence] = ConfidenceTier(frCount)
}

// ParseFailure builds the degraded record returned when a backend reply is
// not valid JSON after fence stripping. The raw reply is preserved so the
// caller can inspect it.
func ParseFailure(raw string) Document {
	return Document{
		"error": "Invalid JSON",
		"raw":   raw,
	}
}
