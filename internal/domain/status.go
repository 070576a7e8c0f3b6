package domain

import "strings"

// RiskLevel is the operator-facing stockout risk category.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "ALTO"
	RiskMedium RiskLevel = "MEDIO"
	RiskLow    RiskLevel = "BAJO"
)

// Supplier categories targeted by the matcher.
const (
	SupplierCategoryLogistics = "LOGISTICA"
	SupplierCategoryServices  = "SERVICIOS"
)

// SegmentUnknown replaces a missing client segment.
const SegmentUnknown = "SIN_DATO"

var segmentFactors = map[string]float64{
	"BASICO":     0.8,
	"ESTANDAR":   1.0,
	"PREFERENTE": 1.2,
}

// SegmentFactor returns the demand multiplier for a client segment
// (case-insensitive); unknown segments weigh 1.0.
func SegmentFactor(segment string) float64 {
	if f, ok := segmentFactors[strings.ToUpper(strings.TrimSpace(segment))]; ok {
		return f
	}
	return 1.0
}
