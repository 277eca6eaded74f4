// Package identity derives canonical animal key candidates from raw records.
//
// Everything here is pure: absent fields simply yield fewer candidates, and
// there are no error conditions.
package identity

import "github.com/woolshed/flockmark/internal/domain/model"

// KeyType tags the identifier variant a key value belongs to.
type KeyType string

const (
	Electronic KeyType = "eid"
	Visual     KeyType = "vid"
	QR         KeyType = "qrid"
	Barcode    KeyType = "barcode"
	Tattoo     KeyType = "tattoo"
)

// Key is one typed identifier value. Two keys match only when both type and
// value are equal.
type Key struct {
	Type  KeyType
	Value string
}

// barcodeLen is the length of a barcode derived from an electronic id.
const barcodeLen = 12

// Fields holds the raw identifier fields of a single record.
type Fields struct {
	EID     string
	VID     string
	QRID    string
	Barcode string
	Tattoo  string
}

// FromRecord extracts the identifier fields of a record. Both "qr" and
// "qrid" are accepted for the QR id, mirroring the importer vocabulary.
func FromRecord(r model.Record) Fields {
	qr := r.String("qr")
	if qr == "" {
		qr = r.String("qrid")
	}
	return Fields{
		EID:     r.String("eid"),
		VID:     r.String("vid"),
		QRID:    qr,
		Barcode: r.String("barcode"),
		Tattoo:  r.String("tattoo"),
	}
}

// DeriveBarcode returns the barcode implied by an electronic id or QR id.
// A QR id is used verbatim; otherwise the last 12 characters of an
// electronic id of at least 12 characters. Returns "" when neither applies.
func DeriveBarcode(eid, qrid string) string {
	if qrid != "" {
		return qrid
	}
	if len(eid) >= barcodeLen {
		return eid[len(eid)-barcodeLen:]
	}
	return ""
}

// Candidates returns the typed keys a record can be matched on. The derived
// barcode participates only when the record carries no explicit barcode.
// Tattoo is deliberately absent: it seeds new animals but never matches
// across records.
func (f Fields) Candidates() []Key {
	var keys []Key
	if f.EID != "" {
		keys = append(keys, Key{Electronic, f.EID})
	}
	if f.VID != "" {
		keys = append(keys, Key{Visual, f.VID})
	}
	if f.QRID != "" {
		keys = append(keys, Key{QR, f.QRID})
	}
	if f.Barcode != "" {
		keys = append(keys, Key{Barcode, f.Barcode})
	} else if derived := DeriveBarcode(f.EID, f.QRID); derived != "" {
		keys = append(keys, Key{Barcode, derived})
	}
	return keys
}

// Empty reports whether the record carried none of the five recognized
// identifiers, in which case it cannot be resolved to an animal.
func (f Fields) Empty() bool {
	return f.EID == "" && f.VID == "" && f.QRID == "" && f.Barcode == "" && f.Tattoo == ""
}

// StoredKeys returns the matchable keys currently present on an animal:
// electronic, visual, QR and barcode. Tattoo is excluded from matching.
func StoredKeys(a *model.Animal) []Key {
	var keys []Key
	if a.EID != "" {
		keys = append(keys, Key{Electronic, a.EID})
	}
	if a.VID != "" {
		keys = append(keys, Key{Visual, a.VID})
	}
	if a.QRID != "" {
		keys = append(keys, Key{QR, a.QRID})
	}
	if a.Barcode != "" {
		keys = append(keys, Key{Barcode, a.Barcode})
	}
	return keys
}
