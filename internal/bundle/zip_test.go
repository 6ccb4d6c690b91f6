package bundle

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linecraft/linesheet/internal/catalog"
)

func TestZip(t *testing.T) {
	files := []catalog.GeneratedFile{
		{Filename: "Acme_Co_FW25.xlsx", Buffer: []byte("workbook-one")},
		{Filename: "Acme_Co_Resort_26.xlsx", Buffer: []byte("workbook-two")},
	}

	data, err := Zip(files)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	// Entry order and content are preserved.
	assert.Equal(t, "Acme_Co_FW25.xlsx", zr.File[0].Name)
	assert.Equal(t, "Acme_Co_Resort_26.xlsx", zr.File[1].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "workbook-two", string(content))
}

func TestZip_Empty(t *testing.T) {
	data, err := Zip(nil)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}
