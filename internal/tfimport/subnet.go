package tfimport

import (
	"github.com/otm-exchange/otmctl/internal/otm"
)

type subnetMapper struct{}

func init() {
	DefaultRegistry.Register("aws_subnet", subnetMapper{})
}

func (subnetMapper) ResourceType() string { return "aws_subnet" }

func (subnetMapper) Map(r *Resource, b *Builder) error {
	b.AddComponent(r.Address(), otm.Component{
		ID:     b.NewID(r),
		Name:   displayName(r),
		Type:   "subnet",
		Parent: otm.Parent{TrustZone: b.ZoneFor(r.FirstRef("vpc_id"))},
	})
	return nil
}
