package tfimport

import (
	"github.com/otm-exchange/otmctl/internal/otm"
)

type ec2Mapper struct{}

func init() {
	DefaultRegistry.Register("aws_instance", ec2Mapper{})
}

func (ec2Mapper) ResourceType() string { return "aws_instance" }

func (ec2Mapper) Map(r *Resource, b *Builder) error {
	id := b.NewID(r)
	b.AddComponent(r.Address(), otm.Component{
		ID:     id,
		Name:   displayName(r),
		Type:   "ec2",
		Parent: otm.Parent{TrustZone: b.ZoneFor(r.FirstRef("subnet_id"), r.FirstRef("vpc_id"))},
	})
	for _, sg := range r.Refs["vpc_security_group_ids"] {
		b.AttachSecurityGroup(sg, id)
	}
	return nil
}
