// Package bundle packs separate-mode workbook files into a single ZIP
// archive for delivery.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/linecraft/linesheet/internal/catalog"
)

// Zip bundles the generated files into one ZIP buffer, preserving order and
// filenames.
func Zip(files []catalog.GeneratedFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		w, err := zw.Create(f.Filename)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("create zip entry %q: %w", f.Filename, err)
		}
		if _, err := w.Write(f.Buffer); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write zip entry %q: %w", f.Filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
