package cart

import (
	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
)

// Upsert drops any entry for the item's order and appends the item at the end.
func Upsert(entries lineitem.Entries, item lineitem.LineItem) (lineitem.Entries, error) {
	entry, err := lineitem.NewEntry(item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart item")
	}
	out := entries.Without(lineitem.NewRefSet(item.Ref()))
	return append(out, entry), nil
}

// EvictByRefs removes every entry referenced by refs. Entries that cannot be
// decoded are kept.
func EvictByRefs(entries lineitem.Entries, refs lineitem.RefSet) lineitem.Entries {
	return entries.Without(refs)
}

// SelectByRefs keeps exactly the entries named by refs. An empty selection, or
// one that matches nothing, fails with EMPTY_SELECTION.
func SelectByRefs(entries lineitem.Entries, refs lineitem.RefSet) (lineitem.Entries, error) {
	if refs.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptySelection, "select at least one order")
	}
	selected := entries.Only(refs)
	if len(selected) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptySelection, "no cart items match the selection").
			WithDetails(map[string]any{
				"product_order_ids":      refs.IDs(enums.ItemTypeProduct),
				"installation_order_ids": refs.IDs(enums.ItemTypeInstallation),
				"cleaning_order_ids":     refs.IDs(enums.ItemTypeCleaning),
			})
	}
	return selected, nil
}

// Total sums the line totals of the decodable entries.
func Total(entries lineitem.Entries) int64 {
	var total int64
	for _, item := range entries.Items() {
		total += item.PricingSummary.Total()
	}
	return total
}
