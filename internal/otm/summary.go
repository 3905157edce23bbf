package otm

// Summary counts the document's domain entities. Representations are
// excluded on purpose: they are layout metadata, not model content.
type Summary struct {
	TrustZones  int `json:"trust_zones"`
	Components  int `json:"components"`
	Dataflows   int `json:"dataflows"`
	Threats     int `json:"threats"`
	Mitigations int `json:"mitigations"`
}

// Summarize returns entity counts for the document.
func Summarize(d *Document) Summary {
	if d == nil {
		return Summary{}
	}
	return Summary{
		TrustZones:  len(d.TrustZones),
		Components:  len(d.Components),
		Dataflows:   len(d.Dataflows),
		Threats:     len(d.Threats),
		Mitigations: len(d.Mitigations),
	}
}
