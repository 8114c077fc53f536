package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvTable is a parsed upload keyed by canonical column name
type csvTable []map[string]string

// readCSVTable parses an uploaded CSV whose first record is the header. Header names are
// matched case-insensitively against each column's accepted names; the first name is the
// canonical one used as the row key. A blank upload yields ErrEmptyUpload, a header
// without data rows an empty table.
func readCSVTable(raw string, columns [][]string) (csvTable, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyUpload
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.ToLower(strings.TrimSpace(name))] = i
	}

	index := make(map[string]int, len(columns))
	for _, names := range columns {
		found := -1
		for _, name := range names {
			if i, ok := position[name]; ok {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingCSVColumn, names[0])
		}
		index[names[0]] = found
	}

	table := csvTable{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		row := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		table = append(table, row)
	}
	return table, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "si", "yes":
		return true
	}
	return false
}
