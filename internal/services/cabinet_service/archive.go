package cabinet_service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/sunr3d/cabinet-bridge/models"
)

func writeZip(archive *models.Archive, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range archive.Entries() {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("не удалось создать запись %s: %w", e.Path, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("не удалось записать %s: %w", e.Path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("не удалось закрыть zip: %w", err)
	}

	return buf.Bytes(), nil
}
