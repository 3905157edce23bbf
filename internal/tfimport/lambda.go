package tfimport

import (
	"github.com/otm-exchange/otmctl/internal/otm"
)

type lambdaMapper struct{}

func init() {
	DefaultRegistry.Register("aws_lambda_function", lambdaMapper{})
}

func (lambdaMapper) ResourceType() string { return "aws_lambda_function" }

func (lambdaMapper) Map(r *Resource, b *Builder) error {
	id := b.NewID(r)

	// Functions only sit in a VPC when a vpc_config block says so.
	var zoneRefs []string
	var sgRefs []string
	for _, vc := range r.BlocksOfType("vpc_config") {
		zoneRefs = append(zoneRefs, vc.Refs["subnet_ids"]...)
		sgRefs = append(sgRefs, vc.Refs["security_group_ids"]...)
	}

	b.AddComponent(r.Address(), otm.Component{
		ID:     id,
		Name:   displayName(r),
		Type:   "lambda",
		Parent: otm.Parent{TrustZone: b.ZoneFor(zoneRefs...)},
	})
	for _, sg := range sgRefs {
		b.AttachSecurityGroup(sg, id)
	}
	return nil
}
