package plan

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvColumns is the required header of a prospect import file.
var csvColumns = []string{"Name", "Source", "Wealth (M)", "Best NNM (M)", "Worst NNM (M)"}

// ImportProspectsCSV parses a prospect table from r. The header row must
// contain all of csvColumns (extra columns are ignored, surrounding
// whitespace is trimmed). Unparseable numeric cells are coerced to 0 so a
// sloppy export still imports.
func ImportProspectsCSV(r io.Reader) ([]Prospect, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv import: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("csv import: missing column %q", col)
		}
	}

	var out []Prospect
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv import: read row: %w", err)
		}
		out = append(out, Prospect{
			Name:     strings.TrimSpace(cell(rec, idx["Name"])),
			Source:   Source(strings.TrimSpace(cell(rec, idx["Source"]))),
			WealthM:  numeric(cell(rec, idx["Wealth (M)"])),
			BestNNM:  numeric(cell(rec, idx["Best NNM (M)"])),
			WorstNNM: numeric(cell(rec, idx["Worst NNM (M)"])),
		})
	}
	return out, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// numeric parses s as a float, returning 0 for anything unparseable or
// negative.
func numeric(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
