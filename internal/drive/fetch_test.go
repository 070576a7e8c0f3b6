package drive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/masters"
	"github.com/andresuchdata/wms-stockout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	dir     string
	files   []*File
	failIDs map[string]bool
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	return f.files, nil
}

func (f *fakeSource) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	if f.failIDs[fileID] {
		return errors.New("connection reset")
	}
	data, err := os.ReadFile(filepath.Join(f.dir, fileID))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newFakeSource(t *testing.T) *fakeSource {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteMasterWorkbooks(t, dir, testutil.SampleClients(), testutil.SampleSuppliers(), testutil.SampleServices())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hola"), 0644))

	return &fakeSource{
		dir: dir,
		files: []*File{
			{ID: "notes.txt", Name: "notes.txt"},
			{ID: masters.ServicesFile, Name: masters.ServicesFile},
			{ID: masters.ClientsFile, Name: masters.ClientsFile},
			{ID: masters.SuppliersFile, Name: masters.SuppliersFile},
		},
	}
}

func TestFetchMasters(t *testing.T) {
	source := newFakeSource(t)
	out := filepath.Join(t.TempDir(), "data")

	paths, err := NewFetcher(source).FetchMasters(context.Background(), FetchOptions{FolderID: "folder", DownloadDir: out})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(out, masters.ClientsFile),
		filepath.Join(out, masters.SuppliersFile),
		filepath.Join(out, masters.ServicesFile),
	}, paths)
	assert.NoFileExists(t, filepath.Join(out, "notes.txt"))

	m, err := masters.LoadDir(out)
	require.NoError(t, err)
	assert.Len(t, m.Services, 8)
}

func TestFetchMastersMissingWorkbook(t *testing.T) {
	source := newFakeSource(t)
	source.files = source.files[:2]

	_, err := NewFetcher(source).FetchMasters(context.Background(), FetchOptions{DownloadDir: t.TempDir()})
	require.ErrorIs(t, err, masters.ErrMissingInput)
	assert.Contains(t, err.Error(), masters.ClientsFile)
}

func TestFetchMastersDownloadFailureKeepsPreviousFile(t *testing.T) {
	source := newFakeSource(t)
	source.failIDs = map[string]bool{masters.SuppliersFile: true}

	out := t.TempDir()
	previous := filepath.Join(out, masters.SuppliersFile)
	require.NoError(t, os.WriteFile(previous, []byte("previous"), 0644))

	_, err := NewFetcher(source).FetchMasters(context.Background(), FetchOptions{DownloadDir: out})
	require.Error(t, err)

	data, err := os.ReadFile(previous)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	leftovers, err := filepath.Glob(filepath.Join(out, "*.part"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFetchMastersWrongSheet(t *testing.T) {
	source := newFakeSource(t)
	// serve the clients workbook under the services name
	source.files[1] = &File{ID: masters.ClientsFile, Name: masters.ServicesFile}

	_, err := NewFetcher(source).FetchMasters(context.Background(), FetchOptions{DownloadDir: t.TempDir()})
	assert.ErrorIs(t, err, masters.ErrMissingInput)
}

func TestFetchMastersRequiresDir(t *testing.T) {
	_, err := NewFetcher(newFakeSource(t)).FetchMasters(context.Background(), FetchOptions{})
	assert.Error(t, err)
}
