package domain

// SnapshotColumns is the exported dataset schema, in order.
var SnapshotColumns = []string{
	"ServicioID", "NombreServicio", "Categoria", "Subcategoria",
	"UnidadTarifa", "TipoUnidad", "TarifaBase", "Moneda",
	"RequiereCertificacion", "Temperatura", "LeadTimeMinDias", "LeadTimeMaxDias",
	"TiempoEjecucionHoras", "ModalidadContrato", "Estado",
	"CantidadPedidoEstandar", "CostoEstandar", "TarifaImpuesto",
	"TemperaturaControlada", "CaducidadControlada", "SLA_horas", "SLA_pct",
	"ClientePropietario", "Segmento", "CanalPreferido", "ZonaDespacho", "Departamento",
	"ProveedorID", "Categoria_prov", "LeadTimePromedioDias", "ToleranciaEntregaDias", "RatingDesempeno",
	"CertificadoCalidad", "Estado_prov",
	"Periodo", "StockActual", "DemandaDiariaEst", "DiasHastaRecepcion", "RecepcionPendiente",
	"Stockout14d",
}

// Record flattens a snapshot into column -> value. Text columns hold a
// string ("" when missing), numeric columns a float64 or nil when missing.
func (s Snapshot) Record() map[string]interface{} {
	return map[string]interface{}{
		"ServicioID":             s.ServicioID,
		"NombreServicio":         s.NombreServicio,
		"Categoria":              s.Categoria,
		"Subcategoria":           s.Subcategoria,
		"UnidadTarifa":           s.UnidadTarifa,
		"TipoUnidad":             s.TipoUnidad,
		"TarifaBase":             optional(s.TarifaBase),
		"Moneda":                 s.Moneda,
		"RequiereCertificacion":  s.RequiereCertificacion,
		"Temperatura":            s.Temperatura,
		"LeadTimeMinDias":        optional(s.LeadTimeMinDias),
		"LeadTimeMaxDias":        optional(s.LeadTimeMaxDias),
		"TiempoEjecucionHoras":   optional(s.TiempoEjecucionHoras),
		"ModalidadContrato":      s.ModalidadContrato,
		"Estado":                 s.Estado,
		"CantidadPedidoEstandar": s.CantidadPedidoEstandar,
		"CostoEstandar":          optional(s.CostoEstandar),
		"TarifaImpuesto":         optional(s.TarifaImpuesto),
		"TemperaturaControlada":  s.TemperaturaControlada,
		"CaducidadControlada":    s.CaducidadControlada,
		"SLA_horas":              s.SLAHoras,
		"SLA_pct":                s.SLAPct,
		"ClientePropietario":     s.ClientePropietario,
		"Segmento":               s.Segmento,
		"CanalPreferido":         s.CanalPreferido,
		"ZonaDespacho":           s.ZonaDespacho,
		"Departamento":           s.Departamento,
		"ProveedorID":            s.ProveedorID,
		"Categoria_prov":         s.CategoriaProv,
		"LeadTimePromedioDias":   optional(s.LeadTimePromedioDias),
		"ToleranciaEntregaDias":  optional(s.ToleranciaEntregaDias),
		"RatingDesempeno":        optional(s.RatingDesempeno),
		"CertificadoCalidad":     s.CertificadoCalidad,
		"Estado_prov":            s.EstadoProv,
		"Periodo":                float64(s.Periodo),
		"StockActual":            float64(s.StockActual),
		"DemandaDiariaEst":       s.DemandaDiariaEst,
		"DiasHastaRecepcion":     float64(s.DiasHastaRecepcion),
		"RecepcionPendiente":     float64(s.RecepcionPendiente),
		"Stockout14d":            float64(s.Stockout14d),
	}
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
