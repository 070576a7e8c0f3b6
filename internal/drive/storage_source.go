package drive

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/storage"
)

// StorageSource serves master workbooks from an object store (local, s3 or
// sevalla) so FetchMasters works the same without Google Drive. The folder ID
// is used as the key prefix.
type StorageSource struct {
	store storage.ObjectStorage
}

func NewStorageSource(store storage.ObjectStorage) *StorageSource {
	return &StorageSource{store: store}
}

func (s *StorageSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	objects, err := s.store.ListObjects(ctx, strings.Trim(folderID, "/"))
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(objects))
	for _, obj := range objects {
		files = append(files, &File{
			ID:   obj.Key,
			Name: path.Base(obj.Key),
			Size: obj.Size,
		})
	}
	return files, nil
}

func (s *StorageSource) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	data, err := s.store.GetObject(ctx, fileID)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
