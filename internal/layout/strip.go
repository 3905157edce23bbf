// Package layout detects and removes diagram-layout metadata
// (representations blocks) from OTM documents. Stripping is pure: it
// returns a new document value and never mutates its input.
package layout

import (
	"github.com/otm-exchange/otmctl/internal/otm"
)

// Strip returns a copy of the document with every representations
// collection removed: at the root and inside each trust zone, component,
// and dataflow. All other fields are untouched.
func Strip(d *otm.Document) *otm.Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Representations = nil

	if len(d.TrustZones) > 0 {
		out.TrustZones = make([]otm.TrustZone, len(d.TrustZones))
		for i, z := range d.TrustZones {
			z.Representations = nil
			out.TrustZones[i] = z
		}
	}
	if len(d.Components) > 0 {
		out.Components = make([]otm.Component, len(d.Components))
		for i, c := range d.Components {
			c.Representations = nil
			out.Components[i] = c
		}
	}
	if len(d.Dataflows) > 0 {
		out.Dataflows = make([]otm.Dataflow, len(d.Dataflows))
		for i, f := range d.Dataflows {
			f.Representations = nil
			out.Dataflows[i] = f
		}
	}
	return &out
}

// HasLayout reports whether a representations key is present at the
// document root or under any trust zone, component, or dataflow.
func HasLayout(d *otm.Document) bool {
	if d == nil {
		return false
	}
	if d.Representations != nil {
		return true
	}
	for i := range d.TrustZones {
		if d.TrustZones[i].Representations != nil {
			return true
		}
	}
	for i := range d.Components {
		if d.Components[i].Representations != nil {
			return true
		}
	}
	for i := range d.Dataflows {
		if d.Dataflows[i].Representations != nil {
			return true
		}
	}
	return false
}

// StripSource strips layout metadata from raw OTM text. The document is
// parsed and rebuilt when it is well-formed YAML; text that does not parse
// goes through the line-oriented fallback instead, so a best-effort result
// is always produced.
func StripSource(src []byte) []byte {
	d, err := otm.Parse(src)
	if err != nil {
		return StripText(src)
	}
	out, err := otm.Marshal(Strip(d))
	if err != nil {
		return StripText(src)
	}
	return out
}
