package model

import (
	"fmt"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

// Risk thresholds on the stockout probability.
const (
	HighRiskThreshold   = 0.70
	MediumRiskThreshold = 0.40
)

// DefaultHorizonDays is the horizon quoted for dataset-row predictions.
const DefaultHorizonDays = 14

// RiskLevelFor buckets a probability.
func RiskLevelFor(prob float64) domain.RiskLevel {
	switch {
	case prob >= HighRiskThreshold:
		return domain.RiskHigh
	case prob >= MediumRiskThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// RiskMessage is the operator message for a probability and horizon.
func RiskMessage(prob float64, horizonDays int) string {
	switch RiskLevelFor(prob) {
	case domain.RiskHigh:
		return fmt.Sprintf("Riesgo ALTO de rotura en %d días. Acción sugerida: generar reabastecimiento inmediato y priorizar recepción.", horizonDays)
	case domain.RiskMedium:
		return fmt.Sprintf("Riesgo MEDIO de rotura en %d días. Acción sugerida: monitoreo diario y validar recepción pendiente.", horizonDays)
	default:
		return fmt.Sprintf("Riesgo BAJO de rotura en %d días. Acción sugerida: operación normal y revisión periódica.", horizonDays)
	}
}
