package question

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestEffectiveKind_DerivedFromSubtype(t *testing.T) {
	cases := []struct {
		subtype Subtype
		want    Kind
	}{
		{SubtypeZone, KindMatching},
		{SubtypeLetterZone, KindMatching},
		{SubtypeAirport, KindMatching},
		{SubtypeCoastline, KindMeasuring},
		{SubtypeHighspeedRail, KindMeasuring},
		{SubtypeMcDonalds, KindMeasuring},
	}
	for _, tc := range cases {
		d := &Descriptor{Subtype: tc.subtype}
		if got := d.EffectiveKind(); got != tc.want {
			t.Errorf("EffectiveKind(%s) = %s, want %s", tc.subtype, got, tc.want)
		}
	}
}

func TestEffectiveKind_ExplicitKindWins(t *testing.T) {
	// Airport exists in both families; an explicit measuring kind must win.
	d := &Descriptor{Kind: KindMeasuring, Subtype: SubtypeAirport}
	if got := d.EffectiveKind(); got != KindMeasuring {
		t.Errorf("EffectiveKind = %s, want measuring", got)
	}
}

func TestSignature_EqualForEqualDescriptors(t *testing.T) {
	a := &Descriptor{Subtype: SubtypeAdminZone, Lat: 48.85, Lng: 2.35, AdminLevel: 4}
	b := &Descriptor{Subtype: SubtypeAdminZone, Lat: 48.85, Lng: 2.35, AdminLevel: 4}

	if a.Signature("fp") != b.Signature("fp") {
		t.Error("equal descriptors must have equal signatures")
	}
}

func TestSignature_OutcomeFieldsDoNotParticipate(t *testing.T) {
	same := true
	a := &Descriptor{Subtype: SubtypeAdminZone, Lat: 1, Lng: 2, AdminLevel: 6}
	b := &Descriptor{Subtype: SubtypeAdminZone, Lat: 1, Lng: 2, AdminLevel: 6, Same: &same}

	if a.Signature("fp") != b.Signature("fp") {
		t.Error("outcome fields must not affect the signature")
	}
}

func TestSignature_FingerprintParticipates(t *testing.T) {
	d := &Descriptor{Subtype: SubtypeAirport, Lat: 1, Lng: 2}

	if d.Signature("viewport-a") == d.Signature("viewport-b") {
		t.Error("changing the map context must change the signature")
	}
}

func TestSignature_DistinguishesSubtypeAndCategory(t *testing.T) {
	a := &Descriptor{Subtype: SubtypeCategoryFull, LocationKind: LocationZoo, Lat: 1, Lng: 2}
	b := &Descriptor{Subtype: SubtypeCategoryFull, LocationKind: LocationMuseum, Lat: 1, Lng: 2}
	c := &Descriptor{Subtype: SubtypeAirport, Lat: 1, Lng: 2}

	if a.Signature("fp") == b.Signature("fp") {
		t.Error("location kind must participate in the signature")
	}
	if a.Signature("fp") == c.Signature("fp") {
		t.Error("subtype must participate in the signature")
	}
}

func TestSignature_EmbeddedGeometryParticipates(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))

	a := &Descriptor{Subtype: SubtypeCustomPoints, Lat: 1, Lng: 2, Geometry: fc}
	b := &Descriptor{Subtype: SubtypeCustomPoints, Lat: 1, Lng: 2}

	if a.Signature("fp") == b.Signature("fp") {
		t.Error("embedded geometry must participate in the signature")
	}
}
