// Package tfimport derives an OTM skeleton from Terraform configuration:
// VPCs become trust zones, compute and storage resources become components
// placed in those zones, and security-group wiring becomes dataflows.
package tfimport

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Resource is one resource block read from Terraform source. Attrs holds
// attributes whose expressions evaluate to literals; Refs holds, per
// attribute, the addresses of other resources the expression references.
type Resource struct {
	Type   string
	Name   string
	Attrs  map[string]cty.Value
	Refs   map[string][]string
	Blocks []*NestedBlock
}

// NestedBlock is a block nested inside a resource (ingress, vpc_config...).
type NestedBlock struct {
	Type  string
	Attrs map[string]cty.Value
	Refs  map[string][]string
}

// Address returns the Terraform address, e.g. "aws_vpc.main".
func (r *Resource) Address() string { return r.Type + "." + r.Name }

// Str returns a string attribute, or "".
func (r *Resource) Str(name string) string { return strVal(r.Attrs, name) }

// StrMap returns a map(string) attribute such as tags.
func (r *Resource) StrMap(name string) map[string]string {
	v, ok := r.Attrs[name]
	if !ok || v.IsNull() || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return nil
	}
	out := make(map[string]string)
	for k, el := range v.AsValueMap() {
		if el.Type() == cty.String && !el.IsNull() {
			out[k] = el.AsString()
		}
	}
	return out
}

// FirstRef returns the first resource address referenced by the named
// attribute, or "".
func (r *Resource) FirstRef(name string) string {
	if refs := r.Refs[name]; len(refs) > 0 {
		return refs[0]
	}
	return ""
}

// BlocksOfType returns nested blocks with the given type.
func (r *Resource) BlocksOfType(t string) []*NestedBlock {
	var out []*NestedBlock
	for _, b := range r.Blocks {
		if b.Type == t {
			out = append(out, b)
		}
	}
	return out
}

func strVal(attrs map[string]cty.Value, name string) string {
	v, ok := attrs[name]
	if !ok || v.IsNull() || v.Type() != cty.String {
		return ""
	}
	return v.AsString()
}

// ParseFiles reads resource blocks from a set of Terraform files. Files are
// processed in name order so the resulting resource list is deterministic.
func ParseFiles(files map[string][]byte) ([]*Resource, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	parser := hclparse.NewParser()
	var resources []*Resource
	for _, name := range names {
		file, diags := parser.ParseHCL(files[name], name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse %s: %s", name, diags.Error())
		}
		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("parse %s: unexpected body type", name)
		}
		for _, block := range body.Blocks {
			if block.Type != "resource" || len(block.Labels) != 2 {
				continue
			}
			r := &Resource{
				Type:  block.Labels[0],
				Name:  block.Labels[1],
				Attrs: make(map[string]cty.Value),
				Refs:  make(map[string][]string),
			}
			readBody(block.Body, r.Attrs, r.Refs)
			for _, nb := range block.Body.Blocks {
				nested := &NestedBlock{
					Type:  nb.Type,
					Attrs: make(map[string]cty.Value),
					Refs:  make(map[string][]string),
				}
				readBody(nb.Body, nested.Attrs, nested.Refs)
				r.Blocks = append(r.Blocks, nested)
			}
			resources = append(resources, r)
		}
	}
	return resources, nil
}

func readBody(body *hclsyntax.Body, attrs map[string]cty.Value, refs map[string][]string) {
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attr := body.Attributes[name]
		for _, traversal := range attr.Expr.Variables() {
			if addr := traversalAddress(traversal); addr != "" {
				refs[name] = append(refs[name], addr)
			}
		}
		if val, diags := attr.Expr.Value(nil); !diags.HasErrors() && val.IsWhollyKnown() {
			attrs[name] = val
		}
	}
}

// traversalAddress renders the first two steps of a traversal as a resource
// address ("aws_vpc.main"). References that are not resource-shaped (var.x,
// local.y) are filtered out later against the known resource set.
func traversalAddress(t hcl.Traversal) string {
	if len(t) < 2 {
		return ""
	}
	root, ok := t[0].(hcl.TraverseRoot)
	if !ok {
		return ""
	}
	attr, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return ""
	}
	return root.Name + "." + attr.Name
}
