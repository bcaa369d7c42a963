package reports

import "sort"

// Invoice is one upstream invoice record. The upstream may carry several
// versions of the same billing period; only the highest version of each
// period is the active one.
type Invoice struct {
	Number     string  `json:"number"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	PeriodFrom string  `json:"periodFrom"`
	PeriodTo   string  `json:"periodTo"`
	Version    int     `json:"version"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	IsActive   bool    `json:"isActive"`
}

type billingPeriod struct {
	year       int
	month      int
	periodFrom string
}

// MarkActiveVersions groups invoices by (year, month, periodFrom), sorts each
// group by version descending and flags the highest version as active. The
// returned slice is ordered group-by-group with newest periods first.
func MarkActiveVersions(invoices []Invoice) []Invoice {
	groups := make(map[billingPeriod][]Invoice)
	order := make([]billingPeriod, 0)

	for _, inv := range invoices {
		key := billingPeriod{inv.Year, inv.Month, inv.PeriodFrom}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		inv.IsActive = false
		groups[key] = append(groups[key], inv)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year > order[j].year
		}
		if order[i].month != order[j].month {
			return order[i].month > order[j].month
		}
		return order[i].periodFrom > order[j].periodFrom
	})

	result := make([]Invoice, 0, len(invoices))
	for _, key := range order {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool {
			return group[i].Version > group[j].Version
		})
		group[0].IsActive = true
		result = append(result, group...)
	}

	return result
}
