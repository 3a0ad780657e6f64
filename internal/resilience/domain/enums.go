package domain

import "strings"

type DomainCode string

const (
	DomainISU DomainCode = "ISU"
	DomainCB  DomainCode = "CB"
	DomainAWM DomainCode = "AWM"
	DomainCRF DomainCode = "CRF"
	DomainCC  DomainCode = "CC"
	DomainSC  DomainCode = "SC"
	DomainCA  DomainCode = "CA"
	DomainFP  DomainCode = "FP"
)

// PrefixSeparator terminates a domain code inside an indicator column name.
const PrefixSeparator = ":"

type ScoreMode string

const (
	ScoreYesPercentage ScoreMode = "yes_percentage"
	ScoreMeanOfMeans   ScoreMode = "mean_of_means"
)

func (m ScoreMode) Valid() bool {
	return m == ScoreYesPercentage || m == ScoreMeanOfMeans
}

// Categorical columns every dataset must carry.
const (
	ColumnBusinessSize    = "Business Size"
	ColumnBusinessSector  = "Business Sector"
	ColumnCyberResilience = "Cyber Resilience"
)

// FilterAll disables a categorical filter.
const FilterAll = "All"

const DefaultScorePrecision = 2

func RequiredColumns() []string {
	return []string{ColumnBusinessSize, ColumnBusinessSector, ColumnCyberResilience}
}

// ResolveDimension maps the short aliases used by the HTTP and CLI surfaces
// to column names. Anything else is returned trimmed.
func ResolveDimension(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "size", "business_size":
		return ColumnBusinessSize
	case "sector", "business_sector":
		return ColumnBusinessSector
	case "resilience", "cyber_resilience", "":
		return ColumnCyberResilience
	}
	return strings.TrimSpace(s)
}
