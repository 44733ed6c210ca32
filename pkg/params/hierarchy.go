package params

import "strings"

// Mass-ordering suffixes. The document declares both orderings of the
// atmospheric splitting (deltam31_nh, deltam31_ih); a consumer selects
// exactly one per fit hypothesis.
const (
	suffixNormal   = "_nh"
	suffixInverted = "_ih"
)

// SelectHierarchy returns an independent set with the hierarchy-split
// parameters collapsed for the chosen mass ordering: deltam31_nh becomes
// deltam31 when normal is true and deltam31_ih is dropped, and vice versa.
// Parameters without a hierarchy suffix are copied unchanged.
func (s *Set) SelectHierarchy(normal bool) *Set {
	keep, drop := suffixNormal, suffixInverted
	if !normal {
		keep, drop = suffixInverted, suffixNormal
	}

	out := NewSet()
	for _, name := range s.order {
		if strings.HasSuffix(name, drop) {
			continue
		}
		p := s.byName[name].clone()
		if strings.HasSuffix(name, keep) {
			p.name = strings.TrimSuffix(name, keep)
		}
		// Add cannot fail: trimming a suffix cannot collide with another
		// name unless the document declared both the bare and the split
		// form, which the loader rejects.
		_ = out.Add(p)
	}
	return out
}
