package container

import (
	"fmt"
	"strings"
)

// request describes one candidate lookup: the wanted type tag, an optional
// qualifier, an optional injection name used as a late tie-break, and whether
// an empty result is acceptable.
type request struct {
	Type      string
	Qualifier string
	Name      string
	Optional  bool
}

func (r request) String() string {
	s := fmt.Sprintf("type %q", r.Type)
	if r.Qualifier != "" {
		s += fmt.Sprintf(" qualifier %q", r.Qualifier)
	}
	if r.Name != "" {
		s += fmt.Sprintf(" name %q", r.Name)
	}
	return s
}

// resolver narrows the registry down to the one definition serving a request.
// It only sees definitions whose condition held at start time.
type resolver struct {
	registry *registry
	active   map[string]bool
}

func newResolver(reg *registry, active map[string]bool) *resolver {
	return &resolver{registry: reg, active: active}
}

// resolveCandidate returns the id of the definition satisfying the request,
// or an empty id when the request is optional and nothing matches.
//
// Selection order: the qualifier filter wins outright when present. Without
// a qualifier, a sole primary candidate is preferred, then a candidate whose
// id equals the injection name, then a sole survivor. Anything else is
// ambiguous.
func (r *resolver) resolveCandidate(req request) (string, error) {
	candidates := r.activeOnly(r.registry.findByType(req.Type))

	if len(candidates) == 0 {
		if req.Optional {
			return "", nil
		}
		return "", ErrNotFound.WithDetail("request", req.String())
	}

	if req.Qualifier != "" {
		matched := r.filterByQualifier(candidates, req.Qualifier)
		switch len(matched) {
		case 0:
			if req.Optional {
				return "", nil
			}
			return "", ErrNotFound.WithDetail("request", req.String())
		case 1:
			return matched[0], nil
		default:
			return "", r.ambiguous(req, matched)
		}
	}

	if id, ok := r.solePrimary(candidates); ok {
		return id, nil
	}

	if req.Name != "" {
		for _, id := range candidates {
			if id == req.Name {
				return id, nil
			}
		}
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	return "", r.ambiguous(req, candidates)
}

func (r *resolver) activeOnly(ids []string) []string {
	matched := ids[:0]
	for _, id := range ids {
		if r.active[id] {
			matched = append(matched, id)
		}
	}
	return matched
}

func (r *resolver) filterByQualifier(ids []string, qualifier string) []string {
	var matched []string
	for _, id := range ids {
		def, err := r.registry.lookup(id)
		if err != nil {
			continue
		}
		for _, q := range def.Qualifiers {
			if q == qualifier {
				matched = append(matched, id)
				break
			}
		}
	}
	return matched
}

func (r *resolver) solePrimary(ids []string) (string, bool) {
	var primary string
	count := 0
	for _, id := range ids {
		def, err := r.registry.lookup(id)
		if err != nil {
			continue
		}
		if def.Primary {
			primary = id
			count++
		}
	}
	return primary, count == 1
}

func (r *resolver) ambiguous(req request, ids []string) error {
	return ErrAmbiguousDefinition.
		WithDetail("request", req.String()).
		WithDetail("candidates", strings.Join(ids, ", "))
}
