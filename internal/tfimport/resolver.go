package tfimport

import (
	"errors"
)

// ErrCycle is returned when resource references form a cycle.
var ErrCycle = errors.New("resource reference cycle detected")

// orderResources returns the resources in dependency order (referenced
// resources first), so trust zones are materialized before the components
// that are placed in them. Input order is preserved among independent
// resources to keep output deterministic.
func orderResources(resources []*Resource) ([]*Resource, error) {
	byAddr := make(map[string]*Resource, len(resources))
	for _, r := range resources {
		byAddr[r.Address()] = r
	}

	// r references dep => dep must come first => inDegree[r]++
	inDegree := make(map[string]int, len(resources))
	dependents := make(map[string][]string)
	for _, r := range resources {
		inDegree[r.Address()] += 0
		for _, addrs := range r.Refs {
			for _, dep := range addrs {
				if _, known := byAddr[dep]; !known || dep == r.Address() {
					continue
				}
				inDegree[r.Address()]++
				dependents[dep] = append(dependents[dep], r.Address())
			}
		}
		for _, b := range r.Blocks {
			for _, addrs := range b.Refs {
				for _, dep := range addrs {
					if _, known := byAddr[dep]; !known || dep == r.Address() {
						continue
					}
					inDegree[r.Address()]++
					dependents[dep] = append(dependents[dep], r.Address())
				}
			}
		}
	}

	var queue []string
	for _, r := range resources {
		if inDegree[r.Address()] == 0 {
			queue = append(queue, r.Address())
		}
	}

	ordered := make([]*Resource, 0, len(resources))
	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		ordered = append(ordered, byAddr[addr])
		for _, dep := range dependents[addr] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(ordered) != len(resources) {
		return nil, ErrCycle
	}
	return ordered, nil
}
