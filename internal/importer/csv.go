package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/normalize"
)

// ErrNoHeader is returned for input with no header row: without headers
// there is no row sequence to normalize, so the batch fails fast before
// any row processing.
var ErrNoHeader = errors.New("csv input has no header row")

// ReadRows tokenizes a vendor CSV export into raw rows. It tolerates
// the quirks real exports show: UTF-8 BOM, lazy quoting, ragged rows
// (missing trailing cells become empty strings, surplus cells are
// dropped). Header column order is preserved because identifier
// scanning depends on it.
func ReadRows(r io.Reader) ([]normalize.RawRow, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if blankHeaders(headers) {
		return nil, ErrNoHeader
	}

	var rows []normalize.RawRow
	for line := 2; ; line++ {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}

		row := normalize.RawRow{
			Headers: headers,
			Values:  make(map[string]string, len(headers)),
		}
		for i, h := range headers {
			if i < len(cells) {
				row.Values[h] = cells[i]
			} else {
				row.Values[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []normalize.RawRow{}
	}
	return rows, nil
}

func blankHeaders(headers []string) bool {
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			return false
		}
	}
	return true
}
