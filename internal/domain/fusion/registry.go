// Package fusion merges per-event record batches into canonical animal
// records. A run builds a fresh registry from the full set of loaded batches,
// so re-running with unchanged inputs reproduces an identical animal list.
package fusion

import (
	"github.com/google/uuid"

	"github.com/woolshed/flockmark/internal/domain/identity"
	"github.com/woolshed/flockmark/internal/domain/model"
)

// registry is the arena of animals built during one run. Animals are
// addressed by their creation index; the key index maps every stored
// identifier to the owning animal's index. A key is indexed when first
// written and never re-pointed, preserving first-assigned-key-wins semantics.
type registry struct {
	animals []*model.Animal
	index   map[identity.Key]int
}

func newRegistry() *registry {
	return &registry{index: make(map[identity.Key]int)}
}

// resolve finds or creates the animal for a record. It returns false when the
// record carries none of the recognized identifiers; such records are dropped
// by the caller.
//
// When a record's candidate keys intersect more than one existing animal, the
// one created earliest wins. That replicates the original linear registry
// scan and is relied on by downstream consumers; do not add smarter
// tie-breaking here.
func (r *registry) resolve(rec model.Record) (*model.Animal, bool) {
	fields := identity.FromRecord(rec)

	best := -1
	for _, key := range fields.Candidates() {
		if idx, ok := r.index[key]; ok && (best == -1 || idx < best) {
			best = idx
		}
	}
	if best >= 0 {
		a := r.animals[best]
		r.mergeIdentifiers(a, fields)
		r.reindex(a, best)
		return a, true
	}

	if fields.Empty() {
		return nil, false
	}
	return r.create(fields), true
}

// create seeds a new animal with whatever identifiers the record carries.
// The barcode falls back from QR id / electronic id, then to the explicit
// barcode field.
func (r *registry) create(fields identity.Fields) *model.Animal {
	barcode := identity.DeriveBarcode(fields.EID, fields.QRID)
	if barcode == "" {
		barcode = fields.Barcode
	}
	a := &model.Animal{
		ID:      uuid.NewString(),
		EID:     fields.EID,
		VID:     fields.VID,
		QRID:    fields.QRID,
		Barcode: barcode,
		Tattoo:  fields.Tattoo,
	}
	idx := len(r.animals)
	r.animals = append(r.animals, a)
	r.reindex(a, idx)
	return a
}

// mergeIdentifiers fills identifier gaps on a matched animal. Populated
// identifier fields are never replaced; the barcode may be recomputed from
// the electronic id or QR id when still unset.
func (r *registry) mergeIdentifiers(a *model.Animal, fields identity.Fields) {
	if a.EID == "" {
		a.EID = fields.EID
	}
	if a.VID == "" {
		a.VID = fields.VID
	}
	if a.QRID == "" {
		a.QRID = fields.QRID
	}
	if a.Tattoo == "" {
		a.Tattoo = fields.Tattoo
	}
	if a.Barcode == "" {
		a.Barcode = identity.DeriveBarcode(a.EID, a.QRID)
		if a.Barcode == "" {
			a.Barcode = fields.Barcode
		}
	}
}

// reindex records any newly stored keys of the animal at idx. Existing
// entries are left untouched: a key observed on two animals keeps pointing at
// whichever owned it first.
func (r *registry) reindex(a *model.Animal, idx int) {
	for _, key := range identity.StoredKeys(a) {
		if _, taken := r.index[key]; !taken {
			r.index[key] = idx
		}
	}
}
