// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
	"time"
)

// BatchType names one of the fixed event batch kinds accepted by the engine.
type BatchType string

// The fixed set of event batches, in the order the fusion engine merges them.
const (
	BatchRegistrations BatchType = "registrations"
	BatchW1            BatchType = "w1"
	BatchW2            BatchType = "w2"
	BatchFleeceWeight  BatchType = "fleeceWeight"
	BatchWTB           BatchType = "wtb"
	BatchOFDA          BatchType = "ofda"
	BatchMarks         BatchType = "marks"
	BatchBCS           BatchType = "bcs"
	BatchMotherRepro   BatchType = "motherRepro"
)

// BatchOrder is the canonical merge order. Later batches depend on state set
// by earlier ones (w1 priority, percent shorn off needing the final body
// weight), so the order is fixed.
var BatchOrder = []BatchType{
	BatchRegistrations,
	BatchW1,
	BatchW2,
	BatchFleeceWeight,
	BatchWTB,
	BatchOFDA,
	BatchMarks,
	BatchBCS,
	BatchMotherRepro,
}

// KnownBatch reports whether t is one of the accepted batch kinds.
func KnownBatch(t BatchType) bool {
	for _, b := range BatchOrder {
		if b == t {
			return true
		}
	}
	return false
}

// FirstWeighMarker is the registration process id that carries a first
// weighing alongside the registration itself.
const FirstWeighMarker = "BKB126"

// Record is one flat event row, already normalized to the engine's field
// vocabulary by an importer. Values are strings or numbers; anything else is
// treated as absent.
type Record map[string]any

// dateLayouts lists the formats importers are known to emit.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// String returns the trimmed string value for key, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

// Float returns the numeric value for key. Coercion failures report !ok so
// the field stays unset downstream rather than raising.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n != n { // NaN
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || f != f {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Date returns the parsed date value for key.
func (r Record) Date(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
