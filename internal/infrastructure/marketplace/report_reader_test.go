package marketplace

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amazon-report.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTabReportParser_StreamsRows(t *testing.T) {
	path := writeReport(t, "item-name\tseller-sku\tquantity\nWidget\tSKU-1\t4\nGadget\tSKU-2\t0\n")
	parser := NewTabReportParser()

	rows, err := parser.Open(path)
	require.NoError(t, err)
	defer rows.Close()

	first, err := rows.Next()
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", first.SKU)
	assert.Equal(t, int64(4), first.Quantity)
	assert.Equal(t, "Widget", first.Fields["item-name"])

	second, err := rows.Next()
	require.NoError(t, err)
	assert.Equal(t, "SKU-2", second.SKU)
	assert.Equal(t, int64(0), second.Quantity)

	_, err = rows.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTabReportParser_ShortRowPadded(t *testing.T) {
	path := writeReport(t, "seller-sku\tquantity\nSKU-1\n")
	parser := NewTabReportParser()

	rows, err := parser.Open(path)
	require.NoError(t, err)
	defer rows.Close()

	row, err := rows.Next()
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", row.SKU)
	assert.Equal(t, int64(0), row.Quantity)
	assert.Equal(t, "", row.Fields["quantity"])
}

func TestTabReportParser_MalformedQuantity(t *testing.T) {
	path := writeReport(t, "seller-sku\tquantity\nSKU-1\tn/a\n")
	parser := NewTabReportParser()

	rows, err := parser.Open(path)
	require.NoError(t, err)
	defer rows.Close()

	row, err := rows.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.Quantity)
}

func TestTabReportParser_MissingSKUColumn(t *testing.T) {
	path := writeReport(t, "item-name\tprice\nWidget\t9.99\n")
	parser := NewTabReportParser()

	_, err := parser.Open(path)

	assert.ErrorIs(t, err, ErrMissingReportHeader)
}

func TestTabReportParser_EmptyFile(t *testing.T) {
	path := writeReport(t, "")
	parser := NewTabReportParser()

	_, err := parser.Open(path)

	assert.ErrorIs(t, err, ErrMissingReportHeader)
}
