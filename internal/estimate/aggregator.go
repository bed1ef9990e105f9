package estimate

import "sort"

// Aggregate groups line items by resolved name. Quantities and totals are summed; the
// unit volume and kind come from the first item seen under that name. Entries are ordered
// by total volume descending, then by name.
func Aggregate(items []LineItem) []BreakdownEntry {
	index := make(map[string]int, len(items))
	breakdown := make([]BreakdownEntry, 0, len(items))

	for _, item := range items {
		if i, ok := index[item.Name]; ok {
			breakdown[i].Quantity += item.Quantity
			breakdown[i].TotalVolume += item.TotalVolume
			continue
		}
		index[item.Name] = len(breakdown)
		breakdown = append(breakdown, BreakdownEntry{
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitVolume:  item.UnitVolume,
			TotalVolume: item.TotalVolume,
			Kind:        item.Kind,
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].TotalVolume != breakdown[j].TotalVolume {
			return breakdown[i].TotalVolume > breakdown[j].TotalVolume
		}
		return breakdown[i].Name < breakdown[j].Name
	})
	return breakdown
}

// TotalVolume sums the line item totals without rounding.
func TotalVolume(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.TotalVolume
	}
	return total
}
