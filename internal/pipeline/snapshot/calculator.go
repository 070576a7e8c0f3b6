package snapshot

import (
	"math"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

// SnapshotCalculator derives stock, receipt and stockout signals for one
// (service, period) pair.
type SnapshotCalculator struct{}

// NewSnapshotCalculator creates a new snapshot calculator
func NewSnapshotCalculator() *SnapshotCalculator {
	return &SnapshotCalculator{}
}

// Calculate computes all snapshot metrics for one input row
func (sc *SnapshotCalculator) Calculate(in SnapshotInput) SnapshotMetrics {
	metrics := SnapshotMetrics{}
	signals := domain.SnapshotSignals{}

	// 1. Daily demand scaled by client segment
	signals.FactorSegmento = domain.SegmentFactor(in.Segmento)
	metrics.DemandaDiariaEst = (in.Quantity / DailyDemandWindowDays) * signals.FactorSegmento

	// 2. Longer contractual lead times carry more stock
	signals.FactorLead = clamp(1.0+in.LeadTimeMax/LeadNormalizerDays, MinLeadFactor, MaxLeadFactor)

	// 3. Every fourth period (shifted by the service number) dips
	signals.Ciclo = (in.Periodo + in.ServicioNum%CycleLength) % CycleLength
	signals.Dip = 1.0
	if signals.Ciclo == 0 {
		signals.Dip = DipFactor
	}

	// 4. Stock on hand
	stock := in.Quantity * float64(1+in.Periodo%3) * signals.FactorLead * signals.Dip
	metrics.StockActual = max(0, roundHalfEven(stock))

	// 5. Days until the next receipt; odd periods add the supplier tolerance
	days := math.Min(in.SupplierLead+float64(in.Periodo%2)*in.Tolerance, MaxReceptionDays)
	metrics.DiasHastaRecepcion = max(0, roundHalfEven(days))

	// 6. Pending receipt when stock covers less than ten days
	if float64(metrics.StockActual) < metrics.DemandaDiariaEst*PendingCoverageDays {
		metrics.RecepcionPendiente = max(0, int(in.Quantity))
	}

	// 7. Label: stock runs out within the horizon before the receipt lands
	if metrics.DemandaDiariaEst != 0 {
		coverage := float64(metrics.StockActual) / metrics.DemandaDiariaEst
		signals.CoberturaDias = &coverage
		if coverage < CoverageHorizonDays && float64(metrics.DiasHastaRecepcion) > coverage {
			metrics.Stockout14d = 1
		}
	}

	metrics.Signals = signals
	return metrics
}
