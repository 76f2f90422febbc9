// Package question defines the question descriptor: the typed record
// describing one geography question and carrying its eventual answer.
package question

import (
	"github.com/paulmach/orb/geojson"
)

// Kind splits questions into the two resolver families.
type Kind string

const (
	// KindMatching questions ask "is the hider in the same region?".
	KindMatching Kind = "matching"
	// KindMeasuring questions ask "is the hider closer than the seeker?".
	KindMeasuring Kind = "measuring"
)

// Subtype identifies one question variant. Exactly one subtype is active per
// descriptor.
type Subtype string

const (
	// Matching family.
	SubtypeZone         Subtype = "zone"          // plain category zone, no spatial boundary
	SubtypeLetterZone   Subtype = "letter-zone"   // admin zones grouped by name initial
	SubtypeCustomZone   Subtype = "custom-zone"   // caller-supplied geometry
	SubtypeAdminZone    Subtype = "admin-zone"    // enclosing administrative boundary
	SubtypeCategoryFull Subtype = "category-full" // every location of a kind, Voronoi-partitioned
	SubtypeAirport      Subtype = "airport"
	SubtypeMajorCity    Subtype = "major-city"
	SubtypeCustomPoints Subtype = "custom-points"

	// Measuring family.
	SubtypeHighspeedRail Subtype = "highspeed-rail"
	SubtypeCoastline     Subtype = "coastline"
	SubtypeCustomMeasure Subtype = "custom-measure"
	SubtypeMcDonalds     Subtype = "mcdonalds"
	SubtypeSeven11       Subtype = "seven11"
	SubtypeRailMeasure   Subtype = "rail-measure"

	// Nearest-station comparisons (no spatial boundary; answered by the
	// nearest-feature strategy).
	SubtypeSameTrainLine          Subtype = "same-train-line"
	SubtypeSameFirstLetterStation Subtype = "same-first-letter-station"
	SubtypeSameLengthStation      Subtype = "same-length-station"
)

// LocationKind is the category metadata for zone and category-full questions.
type LocationKind string

const (
	LocationPark     LocationKind = "park"
	LocationMuseum   LocationKind = "museum"
	LocationAquarium LocationKind = "aquarium"
	LocationZoo      LocationKind = "zoo"
	LocationHospital LocationKind = "hospital"
	LocationCinema   LocationKind = "cinema"
	LocationLibrary  LocationKind = "library"
	LocationGolf     LocationKind = "golf"
)

// LengthComparison is the three-way outcome of name-length questions.
type LengthComparison string

const (
	ComparisonShorter LengthComparison = "shorter"
	ComparisonSame    LengthComparison = "same"
	ComparisonLonger  LengthComparison = "longer"
)

// Descriptor describes one geography question. Outcome fields are write-once
// per resolution pass; the self-correction step may flip a boolean outcome
// exactly once.
type Descriptor struct {
	Kind    Kind    `json:"kind"`
	Subtype Subtype `json:"subtype"`

	// Lat/Lng is the reference coordinate of the question placement (where
	// the seeker asked it).
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// AdminLevel applies to admin-zone and letter-zone questions.
	AdminLevel int `json:"adminLevel,omitempty"`

	// LocationKind applies to zone and category-full questions.
	LocationKind LocationKind `json:"locationKind,omitempty"`

	// Geometry is the caller-supplied geometry for custom-zone,
	// custom-points, and custom-measure questions.
	Geometry *geojson.FeatureCollection `json:"geometry,omitempty"`

	// Outcome fields, set by answer derivation.
	Same             *bool            `json:"same,omitempty"`
	HiderCloser      *bool            `json:"hiderCloser,omitempty"`
	LengthComparison LengthComparison `json:"lengthComparison,omitempty"`
}

// matchingSubtypes enumerates the matching family for Kind derivation.
var matchingSubtypes = map[Subtype]bool{
	SubtypeZone:         true,
	SubtypeLetterZone:   true,
	SubtypeCustomZone:   true,
	SubtypeAdminZone:    true,
	SubtypeCategoryFull: true,
	SubtypeAirport:      true,
	SubtypeMajorCity:    true,
	SubtypeCustomPoints: true,
}

// KindOf returns the family a subtype belongs to when the descriptor leaves
// Kind unset. Airport, major-city, and category-full exist in both families,
// so an explicit Kind on the descriptor always wins.
func KindOf(s Subtype) Kind {
	if matchingSubtypes[s] {
		return KindMatching
	}
	return KindMeasuring
}

// EffectiveKind resolves the descriptor's family.
func (d *Descriptor) EffectiveKind() Kind {
	if d.Kind != "" {
		return d.Kind
	}
	return KindOf(d.Subtype)
}
