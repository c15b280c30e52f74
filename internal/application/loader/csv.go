package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"nemostore-eda/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSV reads a header row followed by records. Empty cells become nil so
// they read as missing downstream, the way a blank cell does in a spreadsheet.
// Short rows are padded with nil; rows longer than the header are rejected.
func parseCSV(name string, data []byte) (*domain.RawDataset, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: no header row", ErrSourceReadFailure, name)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceReadFailure, name, err)
	}
	ds := &domain.RawDataset{Source: "csv", Columns: header, Rows: []domain.RawRecord{}}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceReadFailure, name, err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: %s: record on line %d: %d fields, header has %d",
				ErrSourceReadFailure, name, line, len(rec), len(header))
		}
		row := make(domain.RawRecord, len(header))
		for i, col := range header {
			if i >= len(rec) || rec[i] == "" {
				row[col] = nil
				continue
			}
			row[col] = rec[i]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
