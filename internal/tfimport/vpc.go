package tfimport

import (
	"github.com/otm-exchange/otmctl/internal/otm"
)

type vpcMapper struct{}

func init() {
	DefaultRegistry.Register("aws_vpc", vpcMapper{})
}

func (vpcMapper) ResourceType() string { return "aws_vpc" }

// A VPC is a network boundary: it becomes a trust zone. Private network,
// so it rates higher than the public-cloud default.
func (vpcMapper) Map(r *Resource, b *Builder) error {
	b.AddTrustZone(r.Address(), otm.TrustZone{
		ID:   b.NewID(r),
		Name: displayName(r),
		Risk: otm.TrustZoneRisk{TrustRating: 60},
	})
	return nil
}
