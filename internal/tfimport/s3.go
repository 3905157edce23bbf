package tfimport

import (
	"github.com/otm-exchange/otmctl/internal/otm"
)

type s3Mapper struct{}

func init() {
	DefaultRegistry.Register("aws_s3_bucket", s3Mapper{})
}

func (s3Mapper) ResourceType() string { return "aws_s3_bucket" }

func (s3Mapper) Map(r *Resource, b *Builder) error {
	name := r.Str("bucket")
	if name == "" {
		name = displayName(r)
	}
	b.AddComponent(r.Address(), otm.Component{
		ID:     b.NewID(r),
		Name:   name,
		Type:   "s3",
		Parent: otm.Parent{TrustZone: b.ZoneFor()},
	})
	return nil
}
