package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/andresuchdata/wms-stockout/internal/masters"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// FileSource is the part of the Drive API the fetcher needs.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// FetchOptions controls which folder is read and where workbooks land.
type FetchOptions struct {
	FolderID    string
	DownloadDir string
}

// MasterWorkbooks maps each expected workbook to the sheet it must contain.
var MasterWorkbooks = map[string]string{
	masters.ClientsFile:   masters.ClientsSheet,
	masters.SuppliersFile: masters.SuppliersSheet,
	masters.ServicesFile:  masters.ServicesSheet,
}

// Fetcher downloads the master workbooks from a Drive folder.
type Fetcher struct {
	source FileSource
}

func NewFetcher(source FileSource) *Fetcher {
	return &Fetcher{source: source}
}

// FetchMasters downloads the three maestro_*.xlsx workbooks into DownloadDir
// and returns their local paths. Other files in the folder are ignored.
func (f *Fetcher) FetchMasters(ctx context.Context, opts FetchOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := f.source.ListFiles(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*File, len(MasterWorkbooks))
	for _, file := range files {
		if _, ok := MasterWorkbooks[file.Name]; ok {
			if _, seen := byName[file.Name]; !seen {
				byName[file.Name] = file
			}
		}
	}

	var missing []string
	for name := range MasterWorkbooks {
		if _, ok := byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v not found in drive folder", masters.ErrMissingInput, missing)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var paths []string
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path := filepath.Join(opts.DownloadDir, name)
		if err := f.download(ctx, byName[name], path); err != nil {
			return nil, err
		}
		if err := verifyWorkbook(path, MasterWorkbooks[name]); err != nil {
			return nil, err
		}

		log.Info().Str("file", name).Str("path", path).Msg("master workbook downloaded")
		paths = append(paths, path)
	}

	return paths, nil
}

// download writes to a temp file first so a failed transfer never replaces
// a previously fetched workbook.
func (f *Fetcher) download(ctx context.Context, file *File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), file.Name+".*.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", file.Name, err)
	}
	defer os.Remove(tmp.Name())

	if err := f.source.DownloadFile(ctx, file.ID, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download %s: %w", file.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", file.Name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", file.Name, err)
	}
	return nil
}

func verifyWorkbook(path, sheet string) error {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer wb.Close()

	if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
		return fmt.Errorf("%w: sheet %q not found in %s", masters.ErrMissingInput, sheet, filepath.Base(path))
	}
	return nil
}
