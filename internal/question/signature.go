package question

import (
	"encoding/json"
	"fmt"
)

// signaturePayload fixes the field set and order of the canonical signature.
// Two descriptors with equal payloads MUST resolve to equal boundaries, so
// only resolution-relevant fields participate: outcome fields never do.
type signaturePayload struct {
	Kind         Kind         `json:"kind"`
	Subtype      Subtype      `json:"subtype"`
	Lat          float64      `json:"lat"`
	Lng          float64      `json:"lng"`
	AdminLevel   int          `json:"adminLevel"`
	LocationKind LocationKind `json:"locationKind"`
	Geometry     string       `json:"geometry"`
	Fingerprint  string       `json:"fingerprint"`
}

// Signature derives the canonical cache key for a descriptor within a map
// context. The fingerprint snapshots the active drawn polygon or coarse
// viewport, so changing the map context changes the key; no separate
// eviction event exists.
func (d *Descriptor) Signature(fingerprint string) string {
	embedded := ""
	if d.Geometry != nil {
		if data, err := d.Geometry.MarshalJSON(); err == nil {
			embedded = string(data)
		}
	}
	payload := signaturePayload{
		Kind:         d.EffectiveKind(),
		Subtype:      d.Subtype,
		Lat:          d.Lat,
		Lng:          d.Lng,
		AdminLevel:   d.AdminLevel,
		LocationKind: d.LocationKind,
		Geometry:     embedded,
		Fingerprint:  fingerprint,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Marshal of a flat struct cannot fail; keep a deterministic fallback.
		return fmt.Sprintf("%s|%s|%g|%g|%d|%s|%s", payload.Kind, d.Subtype, d.Lat, d.Lng, d.AdminLevel, d.LocationKind, fingerprint)
	}
	return string(data)
}
