package masters

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/rs/zerolog/log"
)

// Master is one normalized master table plus what was observed before dedupe.
type Master struct {
	Name         string
	IDColumn     string
	Table        *domain.Table
	Dictionary   *domain.Table
	RawRows      int
	DuplicateIDs int
}

// Masters is the immutable, normalized view of the three master tables.
type Masters struct {
	Clientes    Master
	Proveedores Master
	Servicios   Master

	Clients   []domain.Client
	Suppliers []domain.Supplier
	Services  []domain.Service

	// Fingerprint identifies the normalized content; equal inputs give equal
	// fingerprints.
	Fingerprint string
}

// ByName returns the master registered under name (clientes, proveedores, servicios).
func (m *Masters) ByName(name string) (*Master, bool) {
	switch name {
	case NameClients:
		return &m.Clientes, true
	case NameSuppliers:
		return &m.Proveedores, true
	case NameServices:
		return &m.Servicios, true
	}
	return nil, false
}

// All returns the masters in display order.
func (m *Masters) All() []*Master {
	return []*Master{&m.Clientes, &m.Proveedores, &m.Servicios}
}

// Build normalizes, deduplicates and decodes raw master sheets.
func Build(raw *RawMasters) (*Masters, error) {
	if raw == nil || raw.Clients == nil || raw.Suppliers == nil || raw.Services == nil {
		return nil, fmt.Errorf("%w: clients, suppliers and services sheets are required", ErrMissingInput)
	}

	m := &Masters{
		Clientes:    normalizeMaster(NameClients, "ClienteID", raw.Clients, clientNumericColumns),
		Proveedores: normalizeMaster(NameSuppliers, "ProveedorID", raw.Suppliers, supplierNumericColumns),
		Servicios:   normalizeMaster(NameServices, "ServicioID", raw.Services, serviceNumericColumns),
	}
	for _, master := range m.All() {
		master.Dictionary = raw.Dictionaries[master.Name]
		if master.Dictionary == nil {
			master.Dictionary = &domain.Table{Name: master.Name}
		}
	}

	var err error
	if m.Clients, err = decodeClients(m.Clientes.Table); err != nil {
		return nil, err
	}
	if m.Suppliers, err = decodeSuppliers(m.Proveedores.Table); err != nil {
		return nil, err
	}
	if m.Services, err = decodeServices(m.Servicios.Table); err != nil {
		return nil, err
	}

	m.Fingerprint = fingerprint(m.All())

	log.Info().
		Int("clients", len(m.Clients)).
		Int("suppliers", len(m.Suppliers)).
		Int("services", len(m.Services)).
		Msg("masters normalized")

	return m, nil
}

func normalizeMaster(name, idCol string, raw *domain.Table, numeric []string) Master {
	normalized := NormalizeStrings(raw)
	normalized.Name = name
	return Master{
		Name:         name,
		IDColumn:     idCol,
		Table:        CoerceNumeric(DedupeBest(normalized, idCol), numeric),
		RawRows:      normalized.Len(),
		DuplicateIDs: CountDuplicateIDs(normalized, idCol),
	}
}

func fingerprint(all []*Master) string {
	h := sha1.New()
	for _, master := range all {
		fmt.Fprintf(h, "%s|%d|%d\x1d", master.Name, master.RawRows, master.DuplicateIDs)
		io.WriteString(h, strings.Join(master.Table.Columns, "\x1f"))
		for _, row := range master.Table.Rows {
			io.WriteString(h, "\x1e")
			io.WriteString(h, strings.Join(row, "\x1f"))
		}
		io.WriteString(h, "\x1d")
	}
	return hex.EncodeToString(h.Sum(nil))
}
