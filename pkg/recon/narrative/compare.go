package narrative

import (
	"sort"

	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

// Comparison reports what a set of narratives agree and disagree on. Shared
// holds the identifiers present in every compared narrative; Unique, per
// narrative id, the identifiers outside that intersection. Used purely for
// reporting.
type Comparison struct {
	Shared []fact.ID
	Unique map[int][]fact.ID
}

// Compare computes the fact intersection across narratives and each
// narrative's difference against it. Identifier slices are ordered by wire
// spelling so output is deterministic.
func Compare(narratives []Narrative) Comparison {
	cmp := Comparison{Unique: make(map[int][]fact.ID)}
	if len(narratives) == 0 {
		return cmp
	}

	counts := make(map[fact.ID]int)
	for _, n := range narratives {
		ids := make(map[fact.ID]struct{}, len(n.Facts))
		for _, f := range n.Facts {
			ids[f.ID] = struct{}{}
		}
		for id := range ids {
			counts[id]++
		}
	}

	shared := make(map[fact.ID]struct{})
	for id, c := range counts {
		if c == len(narratives) {
			shared[id] = struct{}{}
			cmp.Shared = append(cmp.Shared, id)
		}
	}
	sortIDs(cmp.Shared)

	for _, n := range narratives {
		var unique []fact.ID
		seen := make(map[fact.ID]struct{}, len(n.Facts))
		for _, f := range n.Facts {
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			if _, ok := shared[f.ID]; !ok {
				unique = append(unique, f.ID)
			}
		}
		sortIDs(unique)
		cmp.Unique[n.ID] = unique
	}
	return cmp
}

func sortIDs(ids []fact.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
