package tfimport

import (
	"github.com/otm-exchange/otmctl/internal/otm"
)

type rdsMapper struct{}

func init() {
	DefaultRegistry.Register("aws_db_instance", rdsMapper{})
}

func (rdsMapper) ResourceType() string { return "aws_db_instance" }

func (rdsMapper) Map(r *Resource, b *Builder) error {
	id := b.NewID(r)
	b.AddComponent(r.Address(), otm.Component{
		ID:     id,
		Name:   displayName(r),
		Type:   "rds",
		Parent: otm.Parent{TrustZone: b.ZoneFor(r.FirstRef("db_subnet_group_name"), r.FirstRef("subnet_id"))},
	})
	for _, sg := range r.Refs["vpc_security_group_ids"] {
		b.AttachSecurityGroup(sg, id)
	}
	return nil
}
