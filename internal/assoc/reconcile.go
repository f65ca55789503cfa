// Package assoc computes the row changes needed to bring a many-to-many
// association in line with a desired member set.
package assoc

import "sort"

// Pair is one row of a join table.
type Pair struct {
	OwnerID  int64
	MemberID int64
}

// Delta lists the pairs to remove and the pairs to add. The two slices never
// share a pair.
type Delta struct {
	Delete []Pair
	Insert []Pair
}

// Empty reports whether applying the delta would change nothing.
func (d Delta) Empty() bool {
	return len(d.Delete) == 0 && len(d.Insert) == 0
}

// PairsOf builds the pair set for ownerID and ids. Duplicate ids collapse.
func PairsOf(ownerID int64, ids []int64) []Pair {
	members := memberSet(ids)
	pairs := make([]Pair, 0, len(members))
	for id := range members {
		pairs = append(pairs, Pair{OwnerID: ownerID, MemberID: id})
	}
	sortPairs(pairs)
	return pairs
}

// Reconcile returns the rows to delete and insert so that the stored pairs for
// ownerID equal pairsOf(desired). Pairs in current that belong to a different
// owner are ignored.
func Reconcile(ownerID int64, current []Pair, desired []int64) Delta {
	have := make(map[int64]struct{}, len(current))
	for _, pair := range current {
		if pair.OwnerID != ownerID {
			continue
		}
		have[pair.MemberID] = struct{}{}
	}
	want := memberSet(desired)

	delta := Delta{Delete: []Pair{}, Insert: []Pair{}}
	for id := range have {
		if _, ok := want[id]; !ok {
			delta.Delete = append(delta.Delete, Pair{OwnerID: ownerID, MemberID: id})
		}
	}
	for id := range want {
		if _, ok := have[id]; !ok {
			delta.Insert = append(delta.Insert, Pair{OwnerID: ownerID, MemberID: id})
		}
	}
	sortPairs(delta.Delete)
	sortPairs(delta.Insert)
	return delta
}

// MemberIDs returns the member side of pairs, in the order given.
func MemberIDs(pairs []Pair) []int64 {
	ids := make([]int64, 0, len(pairs))
	for _, pair := range pairs {
		ids = append(ids, pair.MemberID)
	}
	return ids
}

func memberSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].OwnerID != pairs[j].OwnerID {
			return pairs[i].OwnerID < pairs[j].OwnerID
		}
		return pairs[i].MemberID < pairs[j].MemberID
	})
}
