package otm

import (
	"gopkg.in/yaml.v3"
)

// Document is the root structure of an Open Threat Model document.
// Unknown keys at every level are captured by the inline Extra maps so an
// import/export round-trip does not drop caller data.
type Document struct {
	OTMVersion      string           `yaml:"otmVersion" json:"otmVersion"`
	Project         Project          `yaml:"project" json:"project"`
	Representations []Representation `yaml:"representations,omitempty" json:"representations,omitempty"`
	TrustZones      []TrustZone      `yaml:"trustZones,omitempty" json:"trustZones,omitempty"`
	Components      []Component      `yaml:"components,omitempty" json:"components,omitempty"`
	Dataflows       []Dataflow       `yaml:"dataflows,omitempty" json:"dataflows,omitempty"`
	Threats         []Threat         `yaml:"threats,omitempty" json:"threats,omitempty"`
	Mitigations     []Mitigation     `yaml:"mitigations,omitempty" json:"mitigations,omitempty"`
	Extra           map[string]any   `yaml:",inline" json:"-"`
}

// Project identifies the threat model. ID is the natural key used for
// idempotent import against the remote platform.
type Project struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// TrustZone is a network or administrative boundary with a trust rating.
type TrustZone struct {
	ID              string           `yaml:"id" json:"id"`
	Name            string           `yaml:"name" json:"name"`
	Risk            TrustZoneRisk    `yaml:"risk,omitempty" json:"risk,omitempty"`
	Representations []Representation `yaml:"representations,omitempty" json:"representations,omitempty"`
	Extra           map[string]any   `yaml:",inline" json:"-"`
}

// TrustZoneRisk holds the zone's trust rating (0-100).
type TrustZoneRisk struct {
	TrustRating int `yaml:"trustRating" json:"trustRating"`
}

// Component is a system element placed inside a trust zone.
type Component struct {
	ID              string           `yaml:"id" json:"id"`
	Name            string           `yaml:"name" json:"name"`
	Type            string           `yaml:"type" json:"type"`
	Description     string           `yaml:"description,omitempty" json:"description,omitempty"`
	Parent          Parent           `yaml:"parent,omitempty" json:"parent,omitempty"`
	Tags            []string         `yaml:"tags,omitempty" json:"tags,omitempty"`
	Representations []Representation `yaml:"representations,omitempty" json:"representations,omitempty"`
	Extra           map[string]any   `yaml:",inline" json:"-"`
}

// Parent names the element a component nests under. Exactly one of the
// fields is set; TrustZone must reference an existing trust zone id and
// Component an existing component id.
type Parent struct {
	TrustZone string `yaml:"trustZone,omitempty" json:"trustZone,omitempty"`
	Component string `yaml:"component,omitempty" json:"component,omitempty"`
}

// Dataflow is a directed connection between two elements. Source and
// Destination reference component or trust zone ids.
type Dataflow struct {
	ID              string           `yaml:"id" json:"id"`
	Name            string           `yaml:"name" json:"name"`
	Description     string           `yaml:"description,omitempty" json:"description,omitempty"`
	Source          string           `yaml:"source" json:"source"`
	Destination     string           `yaml:"destination" json:"destination"`
	Bidirectional   bool             `yaml:"bidirectional,omitempty" json:"bidirectional,omitempty"`
	Tags            []string         `yaml:"tags,omitempty" json:"tags,omitempty"`
	Representations []Representation `yaml:"representations,omitempty" json:"representations,omitempty"`
	Extra           map[string]any   `yaml:",inline" json:"-"`
}

// Threat is a catalog entry describing a risk to the modeled system.
type Threat struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Categories  []string       `yaml:"categories,omitempty" json:"categories,omitempty"`
	CWEs        []string       `yaml:"cwes,omitempty" json:"cwes,omitempty"`
	Risk        ThreatRisk     `yaml:"risk,omitempty" json:"risk,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// ThreatRisk scores a threat's likelihood and impact (0-100 each).
type ThreatRisk struct {
	Likelihood int `yaml:"likelihood" json:"likelihood"`
	Impact     int `yaml:"impact" json:"impact"`
}

// Mitigation is a countermeasure with a risk-reduction percentage.
type Mitigation struct {
	ID            string         `yaml:"id" json:"id"`
	Name          string         `yaml:"name" json:"name"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	RiskReduction int            `yaml:"riskReduction" json:"riskReduction"`
	Extra         map[string]any `yaml:",inline" json:"-"`
}

// Representation is diagram-layout metadata. It carries no domain meaning:
// at the document root it describes a canvas, on an element it places that
// element on a canvas.
type Representation struct {
	Name           string         `yaml:"name,omitempty" json:"name,omitempty"`
	ID             string         `yaml:"id,omitempty" json:"id,omitempty"`
	Type           string         `yaml:"type,omitempty" json:"type,omitempty"`
	Representation string         `yaml:"representation,omitempty" json:"representation,omitempty"`
	Size           *Size          `yaml:"size,omitempty" json:"size,omitempty"`
	Position       *Position      `yaml:"position,omitempty" json:"position,omitempty"`
	Extra          map[string]any `yaml:",inline" json:"-"`
}

// Size holds width/height in canvas units.
type Size struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Position holds x,y coordinates on a canvas.
type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Parse decodes OTM YAML text into a Document.
func Parse(src []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(src, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Marshal encodes the document back to OTM YAML.
func Marshal(d *Document) ([]byte, error) {
	return yaml.Marshal(d)
}

// TrustZoneByID returns the trust zone with the given id, or nil.
func (d *Document) TrustZoneByID(id string) *TrustZone {
	for i := range d.TrustZones {
		if d.TrustZones[i].ID == id {
			return &d.TrustZones[i]
		}
	}
	return nil
}

// ComponentByID returns the component with the given id, or nil.
func (d *Document) ComponentByID(id string) *Component {
	for i := range d.Components {
		if d.Components[i].ID == id {
			return &d.Components[i]
		}
	}
	return nil
}
