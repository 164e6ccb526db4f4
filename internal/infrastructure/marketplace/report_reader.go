package marketplace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopsync/backend/internal/domain/integration"
)

// Report columns consumed by the engine.
const (
	columnSellerSKU = "seller-sku"
	columnQuantity  = "quantity"
)

// ErrMissingReportHeader indicates the report lacks the expected columns.
var ErrMissingReportHeader = errors.New("amazon: report header misses required columns")

// ---------------------------------------------------------------------------
// TabReportParser
// ---------------------------------------------------------------------------

// TabReportParser opens merchant listings reports, which are tab-delimited
// text with a header row.
type TabReportParser struct{}

var _ integration.ReportParser = (*TabReportParser)(nil)

// NewTabReportParser creates a new TabReportParser
func NewTabReportParser() *TabReportParser {
	return &TabReportParser{}
}

// Open opens the staged report at path for streaming consumption.
func (p *TabReportParser) Open(path string) (integration.RowIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty report", ErrMissingReportHeader)
		}
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	if _, ok := columns[columnSellerSKU]; !ok {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrMissingReportHeader, columnSellerSKU)
	}

	return &tabRowIterator{file: f, reader: reader, header: header, columns: columns}, nil
}

// tabRowIterator streams report rows one at a time. Rows shorter than the
// header are padded with empty fields; the quantity column parses to zero
// when absent or malformed.
type tabRowIterator struct {
	file    *os.File
	reader  *csv.Reader
	header  []string
	columns map[string]int
}

var _ integration.RowIterator = (*tabRowIterator)(nil)

// Next returns the next row, or io.EOF when the report is exhausted.
func (it *tabRowIterator) Next() (*integration.RemoteProductRow, error) {
	record, err := it.reader.Read()
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(it.header))
	for i, name := range it.header {
		if i < len(record) {
			fields[name] = record[i]
		} else {
			fields[name] = ""
		}
	}

	quantity, _ := strconv.ParseInt(fields[columnQuantity], 10, 64)

	return &integration.RemoteProductRow{
		SKU:      fields[columnSellerSKU],
		Quantity: quantity,
		Fields:   fields,
	}, nil
}

// Close releases the underlying report file.
func (it *tabRowIterator) Close() error {
	return it.file.Close()
}
