package reviews

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads `product_name,text` rows into documents. A header row is
// skipped when present; short or empty rows are dropped silently.
func ParseCSV(r io.Reader) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var docs []Document
	first := true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return docs, fmt.Errorf("read review csv: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		name, text := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if first {
			first = false
			if strings.EqualFold(name, "product_name") {
				continue
			}
		}
		if name == "" || len(text) < 5 {
			continue
		}
		docs = append(docs, Document{Product: name, Text: text})
	}
	return docs, nil
}

// ImportCSV reads review rows into the index and returns the number of
// reviews imported.
func (m *MemoryIndex) ImportCSV(r io.Reader) (int, error) {
	docs, err := ParseCSV(r)
	for _, d := range docs {
		m.Add(d.Product, d.Text)
	}
	return len(docs), err
}
