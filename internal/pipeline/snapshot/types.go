package snapshot

import (
	"errors"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

var (
	// ErrNoSuppliers is returned when the supplier master is empty.
	ErrNoSuppliers = errors.New("supplier master is empty")
	// ErrInvalidPeriods is returned when fewer than one period is requested.
	ErrInvalidPeriods = errors.New("periods must be at least 1")
)

// Label and signal constants of the stockout simulation.
const (
	DailyDemandWindowDays = 14.0 // CantidadPedidoEstandar covers two weeks
	CoverageHorizonDays   = 14.0
	PendingCoverageDays   = 10.0
	MaxReceptionDays      = 45.0
	LeadNormalizerDays    = 60.0
	MinLeadFactor         = 0.8
	MaxLeadFactor         = 2.0
	CycleLength           = 4
	DipFactor             = 0.55
)

// Config holds configuration for the snapshot synthesizer
type Config struct {
	Periods int
}

// Medians are the dataset-level fill statistics, computed once over services.
type Medians struct {
	CantidadPedidoEstandar float64 `json:"cantidad_pedido_estandar"`
	LeadTimeMaxDias        float64 `json:"lead_time_max_dias"`
	SupplierLeadTime       float64 `json:"supplier_lead_time"`
}

// SnapshotInput is everything the calculator needs for one (service, period).
type SnapshotInput struct {
	ServicioNum  int
	Periodo      int
	Segmento     string
	Quantity     float64 // filled CantidadPedidoEstandar
	LeadTimeMax  float64 // filled LeadTimeMaxDias
	SupplierLead float64 // filled LeadTimePromedioDias of the assigned supplier
	Tolerance    float64 // ToleranciaEntregaDias, 0 when missing
}

// SnapshotMetrics holds the derived stock, receipt and label values.
type SnapshotMetrics struct {
	StockActual        int
	DemandaDiariaEst   float64
	DiasHastaRecepcion int
	RecepcionPendiente int
	Stockout14d        int
	Signals            domain.SnapshotSignals
}

// Assignment is the supplier picked for a service.
type Assignment struct {
	ServicioID     string `json:"ServicioID"`
	TargetCategory string `json:"target_category"`
	ProveedorID    string `json:"ProveedorID"`
}
