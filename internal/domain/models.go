// internal/domain/models.go
package domain

import "time"

// Client represents a row of the client master
type Client struct {
	ClienteID      string   `json:"ClienteID"`
	Segmento       string   `json:"Segmento"`
	CanalPreferido string   `json:"CanalPreferido"`
	ZonaDespacho   string   `json:"ZonaDespacho"`
	Departamento   string   `json:"Departamento"`
	LimiteCredito  *float64 `json:"LimiteCredito"`
}

// Supplier represents a row of the supplier master
type Supplier struct {
	ProveedorID           string   `json:"ProveedorID"`
	Categoria             string   `json:"Categoria"`
	LeadTimePromedioDias  *float64 `json:"LeadTimePromedioDias"`
	ToleranciaEntregaDias *float64 `json:"ToleranciaEntregaDias"`
	RatingDesempeno       *float64 `json:"RatingDesempeno"`
	CertificadoCalidad    string   `json:"CertificadoCalidad"`
	Estado                string   `json:"Estado"`
	RUC                   string   `json:"RUC"`
	Departamento          string   `json:"Departamento"`
	DiasPago              *float64 `json:"DiasPago"`
	LimiteCredito         *float64 `json:"LimiteCredito"`
}

// Service represents a contracted warehouse service
type Service struct {
	ServicioID             string   `json:"ServicioID"`
	NombreServicio         string   `json:"NombreServicio"`
	Categoria              string   `json:"Categoria"`
	Subcategoria           string   `json:"Subcategoria"`
	UnidadTarifa           string   `json:"UnidadTarifa"`
	TipoUnidad             string   `json:"TipoUnidad"`
	TarifaBase             *float64 `json:"TarifaBase"`
	Moneda                 string   `json:"Moneda"`
	RequiereCertificacion  string   `json:"RequiereCertificacion"`
	Temperatura            string   `json:"Temperatura"`
	LeadTimeMinDias        *float64 `json:"LeadTimeMinDias"`
	LeadTimeMaxDias        *float64 `json:"LeadTimeMaxDias"`
	TiempoEjecucionHoras   *float64 `json:"TiempoEjecucionHoras"`
	ModalidadContrato      string   `json:"ModalidadContrato"`
	Estado                 string   `json:"Estado"`
	CantidadPedidoEstandar *float64 `json:"CantidadPedidoEstandar"`
	CostoEstandar          *float64 `json:"CostoEstandar"`
	TarifaImpuesto         *float64 `json:"TarifaImpuesto"`
	TemperaturaControlada  string   `json:"TemperaturaControlada"`
	CaducidadControlada    string   `json:"CaducidadControlada"`
	SLA                    string   `json:"SLA"`
	SLAHoras               float64  `json:"SLA_horas"`
	SLAPct                 float64  `json:"SLA_pct"`
	ClientePropietario     string   `json:"ClientePropietario"`
}

// Snapshot is one synthesized (service, period) observation. Field order
// follows the exported dataset schema.
type Snapshot struct {
	ServicioID             string   `json:"ServicioID"`
	NombreServicio         string   `json:"NombreServicio"`
	Categoria              string   `json:"Categoria"`
	Subcategoria           string   `json:"Subcategoria"`
	UnidadTarifa           string   `json:"UnidadTarifa"`
	TipoUnidad             string   `json:"TipoUnidad"`
	TarifaBase             *float64 `json:"TarifaBase"`
	Moneda                 string   `json:"Moneda"`
	RequiereCertificacion  string   `json:"RequiereCertificacion"`
	Temperatura            string   `json:"Temperatura"`
	LeadTimeMinDias        *float64 `json:"LeadTimeMinDias"`
	LeadTimeMaxDias        *float64 `json:"LeadTimeMaxDias"`
	TiempoEjecucionHoras   *float64 `json:"TiempoEjecucionHoras"`
	ModalidadContrato      string   `json:"ModalidadContrato"`
	Estado                 string   `json:"Estado"`
	CantidadPedidoEstandar float64  `json:"CantidadPedidoEstandar"`
	CostoEstandar          *float64 `json:"CostoEstandar"`
	TarifaImpuesto         *float64 `json:"TarifaImpuesto"`
	TemperaturaControlada  string   `json:"TemperaturaControlada"`
	CaducidadControlada    string   `json:"CaducidadControlada"`
	SLAHoras               float64  `json:"SLA_horas"`
	SLAPct                 float64  `json:"SLA_pct"`
	ClientePropietario     string   `json:"ClientePropietario"`
	Segmento               string   `json:"Segmento"`
	CanalPreferido         string   `json:"CanalPreferido"`
	ZonaDespacho           string   `json:"ZonaDespacho"`
	Departamento           string   `json:"Departamento"`
	ProveedorID            string   `json:"ProveedorID"`
	CategoriaProv          string   `json:"Categoria_prov"`
	LeadTimePromedioDias   *float64 `json:"LeadTimePromedioDias"`
	ToleranciaEntregaDias  *float64 `json:"ToleranciaEntregaDias"`
	RatingDesempeno        *float64 `json:"RatingDesempeno"`
	CertificadoCalidad     string   `json:"CertificadoCalidad"`
	EstadoProv             string   `json:"Estado_prov"`
	Periodo                int      `json:"Periodo"`
	StockActual            int      `json:"StockActual"`
	DemandaDiariaEst       float64  `json:"DemandaDiariaEst"`
	DiasHastaRecepcion     int      `json:"DiasHastaRecepcion"`
	RecepcionPendiente     int      `json:"RecepcionPendiente"`
	Stockout14d            int      `json:"Stockout14d"`

	// Intermediate signals. Cached with the row but left out of Record and
	// the CSV export.
	Signals SnapshotSignals `json:"signals"`
}

// SnapshotSignals holds the multipliers used to derive a snapshot
type SnapshotSignals struct {
	FactorSegmento float64  `json:"factor_segmento"`
	FactorLead     float64  `json:"factor_lead"`
	Ciclo          int      `json:"ciclo"`
	Dip            float64  `json:"dip"`
	CoberturaDias  *float64 `json:"cobertura_dias"` // nil when daily demand is zero
}

// DatasetSummary is the headline view of a synthesized dataset
type DatasetSummary struct {
	Rows           int     `json:"rows"`
	Services       int     `json:"services"`
	Periods        int     `json:"periods"`
	PositiveRate   float64 `json:"positive_rate"`
	PositiveLabels int     `json:"positive_labels"`
}

// Float returns a pointer to v, handy for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// TrainingRun records one fit of the stockout model
type TrainingRun struct {
	ID           int64     `json:"id" db:"id"`
	TrainedAt    time.Time `json:"trained_at" db:"trained_at"`
	Periods      int       `json:"periods" db:"periods"`
	Rows         int       `json:"rows" db:"rows"`
	Services     int       `json:"services" db:"services"`
	PositiveRate float64   `json:"positive_rate" db:"positive_rate"`
	Accuracy     float64   `json:"accuracy" db:"accuracy"`
	ROCAUC       float64   `json:"roc_auc" db:"roc_auc"`
	PrecisionPos float64   `json:"precision_pos" db:"precision_pos"`
	RecallPos    float64   `json:"recall_pos" db:"recall_pos"`
	F1Pos        float64   `json:"f1_pos" db:"f1_pos"`
	ModelKey     string    `json:"model_key" db:"model_key"`
}
