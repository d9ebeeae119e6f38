// Package importer parses the CSV upload format for batch joke imports.
package importer

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"jokehub/internal/apperrors"
)

// Row is one parsed CSV entry. Validation beyond column shape (empty text or
// category) is the import service's job, which skips rather than fails.
type Row struct {
	Text      string
	Category  string
	FunnyRate int
}

// Parse reads the CSV file. The header row is required and must contain at
// least "text" and "category" (case-insensitive); a "funnyrate" column is
// optional, with invalid or out-of-range values defaulting to 0. Quoting and
// escaped "" are handled by the reader.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperrors.New(apperrors.KindValidation, "empty CSV file")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid CSV header", err)
	}

	textIdx, categoryIdx, funnyRateIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "text":
			textIdx = i
		case "category":
			categoryIdx = i
		case "funnyrate":
			funnyRateIdx = i
		}
	}
	if textIdx == -1 || categoryIdx == -1 {
		return nil, apperrors.New(apperrors.KindValidation, `CSV header must contain "text" and "category" columns`)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindValidation, "invalid CSV record", err)
		}

		row := Row{}
		if textIdx < len(record) {
			row.Text = record[textIdx]
		}
		if categoryIdx < len(record) {
			row.Category = record[categoryIdx]
		}
		if funnyRateIdx != -1 && funnyRateIdx < len(record) {
			if v, err := strconv.Atoi(strings.TrimSpace(record[funnyRateIdx])); err == nil && v >= 0 && v <= 5 {
				row.FunnyRate = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
