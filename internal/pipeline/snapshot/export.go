package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

// Summarize returns the headline counts of a dataset.
func Summarize(rows []domain.Snapshot, periods int) domain.DatasetSummary {
	services := make(map[string]struct{})
	positives := 0
	for _, r := range rows {
		services[r.ServicioID] = struct{}{}
		positives += r.Stockout14d
	}

	summary := domain.DatasetSummary{
		Rows:           len(rows),
		Services:       len(services),
		Periods:        periods,
		PositiveLabels: positives,
	}
	if len(rows) > 0 {
		summary.PositiveRate = float64(positives) / float64(len(rows)) * 100
	}
	return summary
}

// WriteCSVFile writes the dataset to path, creating parent directories.
func WriteCSVFile(path string, rows []domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteCSV(f, rows)
}

// WriteCSV writes the dataset with the keep-list header.
func WriteCSV(out io.Writer, rows []domain.Snapshot) error {
	w := csv.NewWriter(out)

	if err := w.Write(domain.SnapshotColumns); err != nil {
		return err
	}

	rec := make([]string, len(domain.SnapshotColumns))
	for _, r := range rows {
		values := r.Record()
		for i, col := range domain.SnapshotColumns {
			rec[i] = formatCell(values[col])
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
