// Package feed parses dealer inventory exports into intermediate vehicle
// records. Each feed provider names its columns differently; a per-kind
// Adapter maps rows onto the common model.FeedVehicle shape.
package feed

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Record is one feed row as a flat column-name → cell mapping. Every source
// column is preserved: feeds carry more columns than the catalog consumes and
// unmapped ones must not break parsing.
type Record map[string]string

// ParseCSV decodes a UTF-8 delimited feed file. Strict on structure (header
// row required, consistent column count), lenient on content (empty cells are
// valid; no column is individually required here — per-field validation is
// the adapters' and normalizer's job, so one malformed row never aborts the
// file).
func ParseCSV(data []byte) ([]Record, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv parse: empty file")
	}

	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, cell := range row {
			rec[header[i]] = strings.TrimSpace(cell)
		}
		records = append(records, rec)
	}
	return records, nil
}

// SplitList splits a multi-valued cell (photo lists, feature lists) on the
// feed's delimiter, dropping empty entries. An empty cell is a valid empty
// list.
func SplitList(cell, delim string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, delim)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
