package masters

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Workbook file and sheet names of the MDM export.
const (
	ClientsFile     = "maestro_clientes.xlsx"
	SuppliersFile   = "maestro_proveedores.xlsx"
	ServicesFile    = "maestro_servicios.xlsx"
	ClientsSheet    = "Maestro de Clientes"
	SuppliersSheet  = "Proveedores_data"
	ServicesSheet   = "Servicios_data"
	DictionarySheet = "DICCIONARIO"
)

// Master names used as keys across the API and the quality report.
const (
	NameClients   = "clientes"
	NameSuppliers = "proveedores"
	NameServices  = "servicios"
)

// ErrMissingInput is returned when a master file, sheet or required column is absent.
var ErrMissingInput = errors.New("missing master input")

// RawMasters holds the sheets exactly as read from the workbooks.
type RawMasters struct {
	Clients      *domain.Table
	Suppliers    *domain.Table
	Services     *domain.Table
	Dictionaries map[string]*domain.Table
}

// LoadDir reads the three master workbooks from dir and normalizes them.
func LoadDir(dir string) (*Masters, error) {
	raw, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return Build(raw)
}

// ReadDir reads the raw master sheets (and their optional dictionaries) from dir.
func ReadDir(dir string) (*RawMasters, error) {
	paths := map[string]string{
		NameClients:   filepath.Join(dir, ClientsFile),
		NameSuppliers: filepath.Join(dir, SuppliersFile),
		NameServices:  filepath.Join(dir, ServicesFile),
	}
	var missing []string
	for _, name := range []string{NameClients, NameSuppliers, NameServices} {
		if _, err := os.Stat(paths[name]); err != nil {
			missing = append(missing, filepath.Base(paths[name]))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: expected %s, %s and %s in %s (missing: %s)",
			ErrMissingInput, ClientsFile, SuppliersFile, ServicesFile, dir, strings.Join(missing, ", "))
	}

	raw := &RawMasters{Dictionaries: make(map[string]*domain.Table)}
	sheets := []struct {
		name  string
		sheet string
		dst   **domain.Table
	}{
		{NameClients, ClientsSheet, &raw.Clients},
		{NameSuppliers, SuppliersSheet, &raw.Suppliers},
		{NameServices, ServicesSheet, &raw.Services},
	}
	for _, s := range sheets {
		data, dict, err := readWorkbook(paths[s.name], s.sheet)
		if err != nil {
			return nil, err
		}
		data.Name = s.name
		*s.dst = data
		if dict != nil {
			dict.Name = s.name
			raw.Dictionaries[s.name] = dict
		}
		log.Debug().
			Str("master", s.name).
			Int("rows", data.Len()).
			Int("columns", len(data.Columns)).
			Msg("master sheet read")
	}

	return raw, nil
}

// readWorkbook returns the data sheet and, when present, the dictionary sheet.
func readWorkbook(path, sheet string) (*domain.Table, *domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	data, err := readSheet(f, sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var dict *domain.Table
	if idx, err := f.GetSheetIndex(DictionarySheet); err == nil && idx >= 0 {
		dict, err = readSheet(f, DictionarySheet)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}

	return data, dict, nil
}

func readSheet(f *excelize.File, sheet string) (*domain.Table, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found", ErrMissingInput, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &domain.Table{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = h
	}

	t := &domain.Table{Columns: header, Rows: make([][]string, 0, len(rows)-1)}
	for _, record := range rows[1:] {
		if isBlank(record) {
			continue
		}
		row := make([]string, len(header))
		copy(row, record)
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
