// Package model trains and serves the 14-day stockout classifier: a
// median/most-frequent imputer, a standard scaler and one-hot encoder, and a
// class-balanced L2 logistic regression.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

// ErrMissingFeature is returned when a row lacks one of FeatureColumns.
var ErrMissingFeature = errors.New("missing feature column")

// TargetColumn and GroupColumn of the training dataset.
const (
	TargetColumn = "Stockout14d"
	GroupColumn  = "ServicioID"
)

// NumericFeatures are imputed with the median and standardized.
var NumericFeatures = []string{
	"LeadTimeMinDias", "LeadTimeMaxDias", "TiempoEjecucionHoras",
	"CantidadPedidoEstandar", "CostoEstandar", "TarifaImpuesto", "SLA_horas", "SLA_pct",
	"LeadTimePromedioDias", "ToleranciaEntregaDias", "RatingDesempeno",
	"Periodo", "StockActual", "RecepcionPendiente", "DiasHastaRecepcion", "DemandaDiariaEst",
}

// CategoricalFeatures are imputed with the most frequent value and one-hot encoded.
var CategoricalFeatures = []string{
	"Categoria", "Subcategoria", "UnidadTarifa", "TipoUnidad", "Moneda", "RequiereCertificacion", "Temperatura",
	"ModalidadContrato", "Estado", "TemperaturaControlada", "CaducidadControlada",
	"Segmento", "CanalPreferido", "ZonaDespacho", "Departamento",
	"Categoria_prov", "CertificadoCalidad", "Estado_prov",
}

// FeatureColumns is the model input, identical for training and prediction.
var FeatureColumns = []string{
	"Categoria", "Subcategoria", "UnidadTarifa", "TipoUnidad", "Moneda", "RequiereCertificacion", "Temperatura",
	"LeadTimeMinDias", "LeadTimeMaxDias", "TiempoEjecucionHoras", "ModalidadContrato", "Estado",
	"CantidadPedidoEstandar", "CostoEstandar", "TarifaImpuesto", "TemperaturaControlada", "CaducidadControlada", "SLA_horas", "SLA_pct",
	"Segmento", "CanalPreferido", "ZonaDespacho", "Departamento",
	"Categoria_prov", "LeadTimePromedioDias", "ToleranciaEntregaDias", "RatingDesempeno", "CertificadoCalidad", "Estado_prov",
	"Periodo", "StockActual", "RecepcionPendiente", "DiasHastaRecepcion", "DemandaDiariaEst",
}

// FeatureRow maps a feature column to its value. A key must be present for
// every feature column; nil marks a missing value.
type FeatureRow map[string]interface{}

// FeaturesFromSnapshot extracts the model input from a dataset row.
func FeaturesFromSnapshot(s domain.Snapshot) FeatureRow {
	record := s.Record()
	row := make(FeatureRow, len(FeatureColumns))
	for _, col := range FeatureColumns {
		row[col] = record[col]
	}
	return row
}

// Validate checks that every feature column is present.
func (r FeatureRow) Validate() error {
	var missing []string
	for _, col := range FeatureColumns {
		if _, ok := r[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFeature, strings.Join(missing, ", "))
	}
	return nil
}

// Clone returns a shallow copy of the row.
func (r FeatureRow) Clone() FeatureRow {
	out := make(FeatureRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// numericValue reads a numeric cell. Strings are parsed; blanks are missing.
func numericValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case *float64:
		if t == nil {
			return 0, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// categoricalValue reads a categorical cell. Empty strings are missing.
func categoricalValue(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}
