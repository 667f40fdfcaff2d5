package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadValenceTable reads per-sentence valence values from a file. JSON files
// may hold either a plain array of values or an object keyed by sentence
// index. CSV files may carry an "index,valence" header, positional
// index/value rows, or a bare single column of values. The returned slice is
// indexed by sentence index.
func LoadValenceTable(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read valence file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseValenceJSON(data)
	case ".csv":
		return parseValenceCSV(data)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return parseValenceJSON(data)
	}
	return parseValenceCSV(data)
}

func parseValenceJSON(data []byte) ([]float64, error) {
	var list []float64
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var dict map[string]float64
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("valence JSON is neither an array nor an index map: %w", err)
	}

	maxIdx := -1
	parsed := make(map[int]float64, len(dict))
	for key, value := range dict {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("valence map key %q is not a sentence index", key)
		}
		if idx < 0 {
			return nil, fmt.Errorf("negative sentence index %d in valence map", idx)
		}
		parsed[idx] = value
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	values := make([]float64, maxIdx+1)
	for idx, value := range parsed {
		values[idx] = value
	}
	return values, nil
}

func parseValenceCSV(data []byte) ([]float64, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse valence CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("valence CSV is empty")
	}

	// A non-numeric first cell is a header row.
	start := 0
	if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
		start = 1
	}
	if start >= len(rows) {
		return nil, fmt.Errorf("valence CSV has no data rows")
	}

	// Two columns are index,valence; one column is positional.
	parsed := make(map[int]float64)
	maxIdx := -1
	for i, row := range rows[start:] {
		if len(row) == 0 {
			continue
		}
		rowNum := start + i + 1

		idx := i
		cell := row[0]
		if len(row) >= 2 {
			parsedIdx, err := strconv.Atoi(strings.TrimSpace(row[0]))
			if err != nil {
				return nil, fmt.Errorf("invalid sentence index on row %d: %w", rowNum, err)
			}
			idx = parsedIdx
			cell = row[1]
		}
		if idx < 0 {
			return nil, fmt.Errorf("negative sentence index %d on row %d", idx, rowNum)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid valence value on row %d: %w", rowNum, err)
		}
		parsed[idx] = value
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	values := make([]float64, maxIdx+1)
	for idx, value := range parsed {
		values[idx] = value
	}
	return values, nil
}
