package snapshot

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/masters"
	"github.com/andresuchdata/wms-stockout/internal/stats"
	"github.com/rs/zerolog/log"
)

// Synthesizer expands every service into one snapshot per period.
type Synthesizer struct {
	config     Config
	calculator *SnapshotCalculator
}

// NewSynthesizer creates a new snapshot synthesizer instance.
func NewSynthesizer(cfg Config) *Synthesizer {
	return &Synthesizer{
		config:     cfg,
		calculator: NewSnapshotCalculator(),
	}
}

// Name returns the unique identifier of this pipeline.
func (s *Synthesizer) Name() string {
	return "stockout_snapshot"
}

// serviceContext is a service joined with its client and assigned supplier.
type serviceContext struct {
	service  domain.Service
	client   *domain.Client
	supplier *domain.Supplier
	assigned string
}

// Build synthesizes the dataset. Output order is service order, then period.
func (s *Synthesizer) Build(m *masters.Masters) ([]domain.Snapshot, error) {
	if s.config.Periods < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPeriods, s.config.Periods)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: masters not loaded", masters.ErrMissingInput)
	}

	contexts, err := s.join(m)
	if err != nil {
		return nil, err
	}
	medians := computeMedians(contexts)

	rows := make([]domain.Snapshot, 0, len(contexts)*s.config.Periods)
	for _, sc := range contexts {
		for p := 1; p <= s.config.Periods; p++ {
			rows = append(rows, s.snapshot(sc, p, medians))
		}
	}

	log.Info().
		Int("services", len(contexts)).
		Int("periods", s.config.Periods).
		Int("rows", len(rows)).
		Msg("snapshot dataset synthesized")

	return rows, nil
}

// Assignments returns the supplier picked for each service, in service order.
func (s *Synthesizer) Assignments(m *masters.Masters) ([]Assignment, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: masters not loaded", masters.ErrMissingInput)
	}
	matcher, err := NewSupplierMatcher(m.Suppliers)
	if err != nil {
		return nil, err
	}
	clients := indexClients(m.Clients)
	out := make([]Assignment, 0, len(m.Services))
	for _, svc := range m.Services {
		out = append(out, matcher.Assign(svc, lookupClient(clients, svc.ClientePropietario)))
	}
	return out, nil
}

func (s *Synthesizer) join(m *masters.Masters) ([]serviceContext, error) {
	matcher, err := NewSupplierMatcher(m.Suppliers)
	if err != nil {
		return nil, err
	}

	clients := indexClients(m.Clients)
	suppliers := make(map[string]*domain.Supplier, len(m.Suppliers))
	for i := range m.Suppliers {
		id := m.Suppliers[i].ProveedorID
		if _, dup := suppliers[id]; id != "" && !dup {
			suppliers[id] = &m.Suppliers[i]
		}
	}

	out := make([]serviceContext, 0, len(m.Services))
	for _, svc := range m.Services {
		client := lookupClient(clients, svc.ClientePropietario)
		a := matcher.Assign(svc, client)
		out = append(out, serviceContext{
			service:  svc,
			client:   client,
			supplier: suppliers[a.ProveedorID],
			assigned: a.ProveedorID,
		})
	}
	return out, nil
}

func indexClients(clients []domain.Client) map[string]*domain.Client {
	idx := make(map[string]*domain.Client, len(clients))
	for i := range clients {
		id := clients[i].ClienteID
		if _, dup := idx[id]; id != "" && !dup {
			idx[id] = &clients[i]
		}
	}
	return idx
}

func lookupClient(idx map[string]*domain.Client, id string) *domain.Client {
	if id == "" {
		return nil
	}
	return idx[id]
}

// computeMedians gathers the fill statistics over services and their
// assigned suppliers.
func computeMedians(contexts []serviceContext) Medians {
	qty := make([]*float64, 0, len(contexts))
	lead := make([]*float64, 0, len(contexts))
	supplierLead := make([]*float64, 0, len(contexts))
	for _, sc := range contexts {
		qty = append(qty, sc.service.CantidadPedidoEstandar)
		lead = append(lead, sc.service.LeadTimeMaxDias)
		if sc.supplier != nil {
			supplierLead = append(supplierLead, sc.supplier.LeadTimePromedioDias)
		} else {
			supplierLead = append(supplierLead, nil)
		}
	}

	return Medians{
		CantidadPedidoEstandar: medianOrZero("CantidadPedidoEstandar", qty),
		LeadTimeMaxDias:        medianOrZero("LeadTimeMaxDias", lead),
		SupplierLeadTime:       medianOrZero("LeadTimePromedioDias", supplierLead),
	}
}

func medianOrZero(column string, values []*float64) float64 {
	v, ok := stats.MedianOf(values)
	if !ok && len(values) > 0 {
		log.Warn().Str("column", column).Msg("no values to compute median, filling with 0")
	}
	return v
}

func (s *Synthesizer) snapshot(sc serviceContext, periodo int, medians Medians) domain.Snapshot {
	svc := sc.service
	qty := valueOr(svc.CantidadPedidoEstandar, medians.CantidadPedidoEstandar)

	row := domain.Snapshot{
		ServicioID:             svc.ServicioID,
		NombreServicio:         svc.NombreServicio,
		Categoria:              svc.Categoria,
		Subcategoria:           svc.Subcategoria,
		UnidadTarifa:           svc.UnidadTarifa,
		TipoUnidad:             svc.TipoUnidad,
		TarifaBase:             svc.TarifaBase,
		Moneda:                 svc.Moneda,
		RequiereCertificacion:  svc.RequiereCertificacion,
		Temperatura:            svc.Temperatura,
		LeadTimeMinDias:        svc.LeadTimeMinDias,
		LeadTimeMaxDias:        svc.LeadTimeMaxDias,
		TiempoEjecucionHoras:   svc.TiempoEjecucionHoras,
		ModalidadContrato:      svc.ModalidadContrato,
		Estado:                 svc.Estado,
		CantidadPedidoEstandar: qty,
		CostoEstandar:          svc.CostoEstandar,
		TarifaImpuesto:         svc.TarifaImpuesto,
		TemperaturaControlada:  svc.TemperaturaControlada,
		CaducidadControlada:    svc.CaducidadControlada,
		SLAHoras:               svc.SLAHoras,
		SLAPct:                 svc.SLAPct,
		ClientePropietario:     svc.ClientePropietario,
		Segmento:               domain.SegmentUnknown,
		ProveedorID:            sc.assigned,
		Periodo:                periodo,
	}

	if c := sc.client; c != nil {
		if c.Segmento != "" {
			row.Segmento = strings.ToUpper(c.Segmento)
		}
		row.CanalPreferido = c.CanalPreferido
		row.ZonaDespacho = c.ZonaDespacho
		row.Departamento = c.Departamento
	}

	var tolerance float64
	if p := sc.supplier; p != nil {
		row.CategoriaProv = p.Categoria
		row.LeadTimePromedioDias = p.LeadTimePromedioDias
		row.ToleranciaEntregaDias = p.ToleranciaEntregaDias
		row.RatingDesempeno = p.RatingDesempeno
		row.CertificadoCalidad = p.CertificadoCalidad
		row.EstadoProv = p.Estado
		tolerance = valueOr(p.ToleranciaEntregaDias, 0)
	}

	metrics := s.calculator.Calculate(SnapshotInput{
		ServicioNum:  extractNum(svc.ServicioID),
		Periodo:      periodo,
		Segmento:     row.Segmento,
		Quantity:     qty,
		LeadTimeMax:  valueOr(svc.LeadTimeMaxDias, medians.LeadTimeMaxDias),
		SupplierLead: valueOr(row.LeadTimePromedioDias, medians.SupplierLeadTime),
		Tolerance:    tolerance,
	})

	row.StockActual = metrics.StockActual
	row.DemandaDiariaEst = metrics.DemandaDiariaEst
	row.DiasHastaRecepcion = metrics.DiasHastaRecepcion
	row.RecepcionPendiente = metrics.RecepcionPendiente
	row.Stockout14d = metrics.Stockout14d
	row.Signals = metrics.Signals

	return row
}
