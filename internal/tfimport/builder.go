package tfimport

import (
	"fmt"
	"strings"

	"github.com/otm-exchange/otmctl/internal/otm"
)

const defaultZoneID = "public-cloud"

// Builder accumulates OTM entities while mappers walk the resource list in
// dependency order.
type Builder struct {
	doc *otm.Document

	zoneByAddr      map[string]string // resource address -> trust zone id
	componentByAddr map[string]string // resource address -> component id
	usedIDs         map[string]bool

	sgOrder       []string
	sgName        map[string]string   // sg address -> display name
	sgAttachments map[string][]string // sg address -> attached component ids
}

func newBuilder(doc *otm.Document) *Builder {
	return &Builder{
		doc:             doc,
		zoneByAddr:      make(map[string]string),
		componentByAddr: make(map[string]string),
		usedIDs:         make(map[string]bool),
		sgName:          make(map[string]string),
		sgAttachments:   make(map[string][]string),
	}
}

// NewID derives a unique OTM element id from a resource. The bare resource
// name is preferred; the full address breaks collisions across types.
func (b *Builder) NewID(r *Resource) string {
	id := sanitizeID(r.Name)
	if b.usedIDs[id] {
		id = sanitizeID(r.Address())
	}
	b.usedIDs[id] = true
	return id
}

// AddTrustZone records a trust zone and its owning resource address.
func (b *Builder) AddTrustZone(addr string, z otm.TrustZone) {
	b.doc.TrustZones = append(b.doc.TrustZones, z)
	b.zoneByAddr[addr] = z.ID
}

// AddComponent records a component and its owning resource address.
func (b *Builder) AddComponent(addr string, c otm.Component) {
	b.doc.Components = append(b.doc.Components, c)
	b.componentByAddr[addr] = c.ID
}

// ZoneFor resolves the trust zone for the first resolvable address: a zone
// address maps directly, a component address inherits that component's
// parent zone. Falls back to the default zone.
func (b *Builder) ZoneFor(addrs ...string) string {
	for _, addr := range addrs {
		if zone, ok := b.zoneByAddr[addr]; ok {
			return zone
		}
		if compID, ok := b.componentByAddr[addr]; ok {
			if c := b.doc.ComponentByID(compID); c != nil && c.Parent.TrustZone != "" {
				return c.Parent.TrustZone
			}
		}
	}
	return b.defaultZone()
}

// defaultZone lazily creates the catch-all zone for resources without a VPC.
func (b *Builder) defaultZone() string {
	if b.doc.TrustZoneByID(defaultZoneID) == nil {
		b.doc.TrustZones = append(b.doc.TrustZones, otm.TrustZone{
			ID:   defaultZoneID,
			Name: "Public Cloud",
			Risk: otm.TrustZoneRisk{TrustRating: 10},
		})
		b.usedIDs[defaultZoneID] = true
	}
	return defaultZoneID
}

// RegisterSecurityGroup records a security group so AttachSecurityGroup
// calls against it can later be turned into dataflows.
func (b *Builder) RegisterSecurityGroup(addr, name string) {
	if _, seen := b.sgName[addr]; !seen {
		b.sgOrder = append(b.sgOrder, addr)
	}
	b.sgName[addr] = name
}

// AttachSecurityGroup links a component to a security group.
func (b *Builder) AttachSecurityGroup(sgAddr, componentID string) {
	if _, seen := b.sgName[sgAddr]; !seen {
		b.sgOrder = append(b.sgOrder, sgAddr)
		b.sgName[sgAddr] = sgAddr
	}
	b.sgAttachments[sgAddr] = append(b.sgAttachments[sgAddr], componentID)
}

// finish derives dataflows: components attached to the same security group
// are assumed to communicate, pairwise and bidirectionally.
func (b *Builder) finish() {
	n := 0
	for _, sgAddr := range b.sgOrder {
		attached := b.sgAttachments[sgAddr]
		name := b.sgName[sgAddr]
		for i := 0; i < len(attached); i++ {
			for j := i + 1; j < len(attached); j++ {
				n++
				b.doc.Dataflows = append(b.doc.Dataflows, otm.Dataflow{
					ID:            fmt.Sprintf("flow-%d", n),
					Name:          fmt.Sprintf("%s: %s to %s", name, attached[i], attached[j]),
					Source:        attached[i],
					Destination:   attached[j],
					Bidirectional: true,
				})
			}
		}
	}
}

// sanitizeID converts a Terraform name or address to an OTM-friendly id.
func sanitizeID(s string) string {
	s = strings.ReplaceAll(s, ".", "-")
	return strings.ReplaceAll(s, "_", "-")
}

// displayName prefers the Name tag, then the label, then the resource name.
func displayName(r *Resource) string {
	if tags := r.StrMap("tags"); tags != nil {
		if name, ok := tags["Name"]; ok && name != "" {
			return name
		}
	}
	return r.Name
}
