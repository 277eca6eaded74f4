package model

import "time"

// Animal is the canonical fused record for one animal. It is mutable while
// the fusion engine merges event batches and read-only afterwards.
//
// Identifier fields use "" for absent; measurement fields use nil pointers so
// an unset value is distinguishable from zero.
type Animal struct {
	// ID is the stable internal id assigned at creation.
	ID string `json:"id"`

	// Identifiers.
	EID     string `json:"eid,omitempty"`
	VID     string `json:"vid,omitempty"`
	QRID    string `json:"qrid,omitempty"`
	Barcode string `json:"barcode,omitempty"`
	Tattoo  string `json:"tattoo,omitempty"`

	// Birth attributes, sourced from registrations.
	BirthDate   string `json:"birthdate,omitempty"`
	BirthStatus string `json:"birthStatus,omitempty"`
	Dam         string `json:"dam,omitempty"`
	Sire        string `json:"sire,omitempty"`
	Sex         string `json:"sex,omitempty"`

	// Growth attributes.
	W1     *float64   `json:"w1,omitempty"`
	W1Date *time.Time `json:"w1Date,omitempty"`
	W2     *float64   `json:"w2,omitempty"`
	W2Date *time.Time `json:"w2Date,omitempty"`
	ADG    *float64   `json:"adg,omitempty"`

	// Fiber attributes.
	FleeceWeight     *float64   `json:"fleeceWeight,omitempty"`
	FleeceWeightDate *time.Time `json:"fleeceWeightDate,omitempty"`
	FinalBodyWeight  *float64   `json:"finalBodyWeight,omitempty"`
	PercentShornOff  *float64   `json:"percentShornOff,omitempty"`
	CleanYield       *float64   `json:"cleanYield,omitempty"`
	WoolMicron       *float64   `json:"woolMicron,omitempty"`
	CVDifference     *float64   `json:"cvDifference,omitempty"`
	ComfortFactor    *float64   `json:"comfortFactor,omitempty"`
	FiberLength      *float64   `json:"fiberLength,omitempty"`

	// Visual score attributes.
	BCS               *float64   `json:"bcs,omitempty"`
	BCSDate           *time.Time `json:"bcsDate,omitempty"`
	ConformationScore *float64   `json:"conformationScore,omitempty"`
	WoolScore         *float64   `json:"woolScore,omitempty"`

	// Reproduction attributes of the dam.
	MotherRepro      *float64 `json:"motherRepro,omitempty"`
	MotherReproGroup string   `json:"motherReproGroup,omitempty"`

	// Grouping attributes.
	RegGroup  string `json:"dssRegGroup,omitempty"`
	MgmtGroup string `json:"dssMGroup,omitempty"`
}

// Metric returns the animal's value for a scoring criterion id. The id
// vocabulary matches the rubric configuration.
func (a *Animal) Metric(id string) (float64, bool) {
	var p *float64
	switch id {
	case "w1":
		p = a.W1
	case "w2":
		p = a.W2
	case "adg":
		p = a.ADG
	case "fleeceWeight":
		p = a.FleeceWeight
	case "cleanYield":
		p = a.CleanYield
	case "percentShornOff":
		p = a.PercentShornOff
	case "bcs":
		p = a.BCS
	case "conformationScore":
		p = a.ConformationScore
	case "woolScore":
		p = a.WoolScore
	case "motherRepro":
		p = a.MotherRepro
	case "comfortFactor":
		p = a.ComfortFactor
	case "woolMicron":
		p = a.WoolMicron
	case "cvDifference":
		p = a.CVDifference
	case "fiberLength":
		p = a.FiberLength
	default:
		return 0, false
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// MetricIDs lists every criterion id Metric understands, in rubric order.
var MetricIDs = []string{
	"w1", "w2", "adg", "fleeceWeight", "cleanYield", "percentShornOff",
	"bcs", "conformationScore", "woolScore", "motherRepro", "comfortFactor",
	"woolMicron", "cvDifference", "fiberLength",
}
