package otm

import (
	"fmt"
)

// RefError is a single structural/cross-reference failure.
type RefError struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"` // error
	ElementID  string `json:"element_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidateRefs checks the document's cross-reference invariants: unique ids,
// component parents referencing existing trust zones (or components), and
// dataflow endpoints referencing existing components or trust zones. Shape
// constraints (required fields, types) are the schema validator's job.
func ValidateRefs(d *Document) []RefError {
	var errs []RefError

	if d == nil {
		return []RefError{{Type: "ref_error", Severity: "error", Message: "document is nil"}}
	}

	zoneIDs := make(map[string]bool)
	for i := range d.TrustZones {
		z := &d.TrustZones[i]
		if z.ID == "" {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error",
				Message: fmt.Sprintf("trust zone at index %d has empty id", i), Suggestion: "Set trustZones[].id",
			})
			continue
		}
		if zoneIDs[z.ID] {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error", ElementID: z.ID,
				Message: "duplicate trust zone id: " + z.ID, Suggestion: "Use unique ids for each trust zone",
			})
		}
		zoneIDs[z.ID] = true
	}

	componentIDs := make(map[string]bool)
	for i := range d.Components {
		c := &d.Components[i]
		if c.ID == "" {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error",
				Message: fmt.Sprintf("component at index %d has empty id", i), Suggestion: "Set components[].id",
			})
			continue
		}
		if componentIDs[c.ID] {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error", ElementID: c.ID,
				Message: "duplicate component id: " + c.ID, Suggestion: "Use unique ids for each component",
			})
		}
		componentIDs[c.ID] = true
	}

	for i := range d.Components {
		c := &d.Components[i]
		if c.Parent.TrustZone != "" && !zoneIDs[c.Parent.TrustZone] {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error", ElementID: c.ID,
				Message: "parent trust zone not found: " + c.Parent.TrustZone,
				Suggestion: "Reference an existing trustZones[].id",
			})
		}
		if c.Parent.Component != "" && !componentIDs[c.Parent.Component] {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error", ElementID: c.ID,
				Message: "parent component not found: " + c.Parent.Component,
				Suggestion: "Reference an existing components[].id",
			})
		}
	}

	elementIDs := func(id string) bool { return componentIDs[id] || zoneIDs[id] }
	for i := range d.Dataflows {
		f := &d.Dataflows[i]
		if f.Source == "" || f.Destination == "" {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error", ElementID: f.ID,
				Message:    fmt.Sprintf("dataflow at index %d must have source and destination", i),
				Suggestion: "Set dataflows[].source and dataflows[].destination to element ids",
			})
			continue
		}
		if !elementIDs(f.Source) {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error", ElementID: f.ID,
				Message: "dataflow source not found: " + f.Source, Suggestion: "Reference an existing component or trust zone id",
			})
		}
		if !elementIDs(f.Destination) {
			errs = append(errs, RefError{
				Type: "ref_error", Severity: "error", ElementID: f.ID,
				Message: "dataflow destination not found: " + f.Destination, Suggestion: "Reference an existing component or trust zone id",
			})
		}
	}

	return errs
}
