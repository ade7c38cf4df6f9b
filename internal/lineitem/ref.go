package lineitem

import (
	"sort"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// OrderRef is an (item_type, order_id) pair.
type OrderRef struct {
	Type enums.ItemType `json:"item_type"`
	ID   int64          `json:"order_id"`
}

// RefSet is a set of order references grouped by type.
type RefSet map[enums.ItemType]map[int64]struct{}

func NewRefSet(refs ...OrderRef) RefSet {
	set := RefSet{}
	for _, ref := range refs {
		set.Add(ref)
	}
	return set
}

// RefSetFromIDs builds a set from the per-type id lists used by the API.
// Non-positive ids are ignored.
func RefSetFromIDs(productIDs, installationIDs, cleaningIDs []int64) RefSet {
	set := RefSet{}
	for _, id := range productIDs {
		set.Add(OrderRef{Type: enums.ItemTypeProduct, ID: id})
	}
	for _, id := range installationIDs {
		set.Add(OrderRef{Type: enums.ItemTypeInstallation, ID: id})
	}
	for _, id := range cleaningIDs {
		set.Add(OrderRef{Type: enums.ItemTypeCleaning, ID: id})
	}
	return set
}

func (s RefSet) Add(ref OrderRef) {
	if ref.ID <= 0 || !ref.Type.IsValid() {
		return
	}
	ids, ok := s[ref.Type]
	if !ok {
		ids = map[int64]struct{}{}
		s[ref.Type] = ids
	}
	ids[ref.ID] = struct{}{}
}

func (s RefSet) Contains(ref OrderRef) bool {
	_, ok := s[ref.Type][ref.ID]
	return ok
}

// Len counts references across all types.
func (s RefSet) Len() int {
	n := 0
	for _, ids := range s {
		n += len(ids)
	}
	return n
}

// IDs returns the sorted ids of one type.
func (s RefSet) IDs(t enums.ItemType) []int64 {
	out := make([]int64, 0, len(s[t]))
	for id := range s[t] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
