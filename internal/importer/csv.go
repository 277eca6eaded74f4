// Package importer reads batch files into the engine's flat record
// vocabulary. It owns header recognition and numeric coercion; the fusion
// engine only ever sees normalized field names.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/woolshed/flockmark/internal/domain/model"
)

// ReadCSV parses one batch file. The first row is the header; source-specific
// column names are recognized by substring after lowercasing and stripping
// non-alphanumerics, the same matching the upstream spreadsheets rely on.
// Cells that fail numeric coercion are omitted so the field stays unset.
func ReadCSV(batch model.BatchType, r io.Reader) ([]model.Record, error) {
	if !model.KnownBatch(batch) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBatch, batch)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	fields := make([]fieldSpec, len(header))
	for i, h := range header {
		fields[i] = mapHeader(batch, normalizeHeader(h))
	}

	var records []model.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
		}
		rec := make(model.Record)
		for i, cell := range row {
			if i >= len(fields) || fields[i].name == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if fields[i].numeric {
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					rec[fields[i].name] = v
				}
				continue
			}
			rec[fields[i].name] = cell
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

// fieldSpec is the normalized destination of one source column.
type fieldSpec struct {
	name    string
	numeric bool
}

// normalizeHeader lowercases and strips everything but letters and digits.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mapHeader maps a normalized source column name to the engine field it
// feeds. Identifier and date columns are shared across batches; measurement
// columns are batch-specific.
func mapHeader(batch model.BatchType, key string) fieldSpec {
	switch {
	case strings.Contains(key, "eid"), strings.Contains(key, "eartag"):
		return fieldSpec{name: "eid"}
	case strings.Contains(key, "vid"):
		return fieldSpec{name: "vid"}
	case strings.Contains(key, "barcode"):
		return fieldSpec{name: "barcode"}
	case strings.Contains(key, "qr"):
		return fieldSpec{name: "qr"}
	case strings.Contains(key, "tattoo"), strings.Contains(key, "herdmark"):
		return fieldSpec{name: "tattoo"}
	case strings.Contains(key, "processid"):
		return fieldSpec{name: "processId"}
	case strings.Contains(key, "date") && !strings.Contains(key, "shear"):
		return fieldSpec{name: "date"}
	}

	switch batch {
	case model.BatchRegistrations:
		switch {
		case strings.Contains(key, "dob"), strings.Contains(key, "birthdate"):
			return fieldSpec{name: "dob"}
		case strings.Contains(key, "sex"):
			return fieldSpec{name: "sex"}
		case strings.Contains(key, "birthstatus"):
			return fieldSpec{name: "birthStatus"}
		case strings.Contains(key, "dam"):
			return fieldSpec{name: "dam"}
		case strings.Contains(key, "sire"):
			return fieldSpec{name: "sire"}
		case strings.Contains(key, "weight"):
			return fieldSpec{name: "weight", numeric: true}
		case strings.Contains(key, "dssreggroup"):
			return fieldSpec{name: "dssRegGroup"}
		case strings.Contains(key, "dssmgroup"):
			return fieldSpec{name: "dssMGroup"}
		}
	case model.BatchW1:
		if strings.Contains(key, "w1") || strings.Contains(key, "weight") {
			return fieldSpec{name: "w1", numeric: true}
		}
	case model.BatchW2:
		if strings.Contains(key, "w2") || strings.Contains(key, "weight") {
			return fieldSpec{name: "w2", numeric: true}
		}
	case model.BatchFleeceWeight:
		if strings.Contains(key, "fw") || strings.Contains(key, "fleeceweight") {
			return fieldSpec{name: "fw", numeric: true}
		}
	case model.BatchWTB:
		switch {
		case strings.Contains(key, "cvdifference"):
			return fieldSpec{name: "cvDifference", numeric: true}
		case strings.Contains(key, "mfd") && !strings.Contains(key, "cv"):
			return fieldSpec{name: "mfd", numeric: true}
		case strings.Contains(key, "comfort"):
			return fieldSpec{name: "comfortFactorPct", numeric: true}
		case strings.Contains(key, "yield"):
			return fieldSpec{name: "yieldPct", numeric: true}
		case strings.Contains(key, "manual") && strings.Contains(key, "length"):
			return fieldSpec{name: "manualLength", numeric: true}
		}
	case model.BatchOFDA:
		switch {
		case strings.Contains(key, "cvdifference"):
			return fieldSpec{name: "cvDifference", numeric: true}
		case strings.Contains(key, "micave"):
			return fieldSpec{name: "micAve", numeric: true}
		case strings.Contains(key, "cfpercent"):
			return fieldSpec{name: "cfPercent", numeric: true}
		case strings.Contains(key, "yield"):
			return fieldSpec{name: "yieldPercent", numeric: true}
		case strings.Contains(key, "sl") && strings.Contains(key, "mm"):
			return fieldSpec{name: "slMm", numeric: true}
		}
	case model.BatchMarks:
		switch {
		case strings.Contains(key, "conformation"):
			return fieldSpec{name: "conformation", numeric: true}
		case strings.Contains(key, "wool") && strings.Contains(key, "mark"):
			return fieldSpec{name: "woolMark", numeric: true}
		case strings.Contains(key, "bcs"):
			return fieldSpec{name: "bcs", numeric: true}
		}
	case model.BatchBCS:
		if strings.Contains(key, "bcs") {
			return fieldSpec{name: "bcs", numeric: true}
		}
	case model.BatchMotherRepro:
		switch {
		case strings.Contains(key, "damid"):
			return fieldSpec{name: "damId"}
		case strings.Contains(key, "dssvalue"):
			return fieldSpec{name: "dssValue", numeric: true}
		case strings.Contains(key, "dssgroup"):
			return fieldSpec{name: "dssGroup"}
		case strings.Contains(key, "group"):
			return fieldSpec{name: "group"}
		}
	}
	return fieldSpec{}
}
