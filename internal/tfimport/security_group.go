package tfimport

type securityGroupMapper struct{}

func init() {
	DefaultRegistry.Register("aws_security_group", securityGroupMapper{})
}

func (securityGroupMapper) ResourceType() string { return "aws_security_group" }

// Security groups produce no element of their own; they name the dataflows
// derived from the components attached to them.
func (securityGroupMapper) Map(r *Resource, b *Builder) error {
	name := r.Str("name")
	if name == "" {
		name = displayName(r)
	}
	b.RegisterSecurityGroup(r.Address(), name)
	return nil
}
